// Package viz renders a live simulation in the terminal using bubbletea.
package viz
