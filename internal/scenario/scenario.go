// Package scenario loads initial body sets from scenario files.
//
// Two formats are supported: the line-based "v3" text format
// (.txt/.scenario) and YAML (.yaml/.yml). Both yield the same record type;
// malformed records are rejected here and never reach the simulation core.
package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/perihelion-dev/astrosim/internal/body"
)

// Kind discriminates the render payload carried by a record. The physics
// core ignores everything but name, mass, position, and velocity.
type Kind string

const (
	KindPlanet     Kind = "planet"
	KindStar       Kind = "star"
	KindPlanetAtmo Kind = "planet_atmo"
	KindBlackHole  Kind = "black_hole"
)

// Body is one scenario record. SI units throughout.
type Body struct {
	Name     string
	Kind     Kind
	Mass     float64 // kg
	Position body.Vec3
	Velocity body.Vec3

	// Render-only payload, carried through untouched.
	Radius         float64
	Temperature    float64 // stars only
	TexturePath    string
	AmbientTexture string
	OrbitColor     [4]float32
	AtmoColor      [4]float32 // planet_atmo only
	// incTilt, axisRightAsc, rotPeriod, offset (radians)
	Rotation [4]float32
}

// Scenario is a parsed set of initial bodies.
type Scenario struct {
	Bodies []Body
}

// NewBody converts a record into a simulation body.
func (b Body) NewBody() *body.Body {
	nb := body.New(b.Mass, b.Position, b.Velocity)
	nb.Name = b.Name
	return nb
}

// Parse reads the line-based v3 scenario format. The first non-empty line
// must be the "v3" header. Unknown record types are skipped; structurally
// broken records abort the parse.
func Parse(content string) (*Scenario, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "v3" {
		return nil, fmt.Errorf("scenario: invalid file format, expected v3 header")
	}

	s := &Scenario{}
	i := 1
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		if !strings.HasPrefix(line, "type:") {
			i++
			continue
		}

		kind, err := extractValue(line)
		if err != nil {
			return nil, err
		}

		var b Body
		switch Kind(kind) {
		case KindPlanet:
			b, i, err = parsePlanet(lines, i)
		case KindStar:
			b, i, err = parseStar(lines, i)
		case KindPlanetAtmo:
			b, i, err = parsePlanetAtmo(lines, i)
		case KindBlackHole:
			b, i, err = parseBlackHole(lines, i)
		default:
			i++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scenario: record at line %d: %w", i+1, err)
		}

		s.Bodies = append(s.Bodies, b)
	}

	return s, nil
}

// parseCommon reads the fields every record shares: name, radius, mass,
// velocity, position. It returns the advanced line index.
func parseCommon(lines []string, i int) (Body, int, error) {
	var b Body
	i++ // past type line

	var err error
	if b.Name, err = fieldValue(lines, i); err != nil {
		return b, i, err
	}
	i++

	if b.Radius, err = fieldFloat(lines, i); err != nil {
		return b, i, err
	}
	i++

	if b.Mass, err = fieldFloat(lines, i); err != nil {
		return b, i, err
	}
	i++

	if b.Velocity, err = fieldVec3(lines, i); err != nil {
		return b, i, err
	}
	i++

	if b.Position, err = fieldVec3(lines, i); err != nil {
		return b, i, err
	}
	i++

	return b, i, nil
}

func parsePlanet(lines []string, i int) (Body, int, error) {
	b, i, err := parseCommon(lines, i)
	if err != nil {
		return b, i, err
	}
	b.Kind = KindPlanet

	if b.TexturePath, err = fieldValue(lines, i); err != nil {
		return b, i, err
	}
	i++

	if b.OrbitColor, err = fieldFloat4(lines, i); err != nil {
		return b, i, err
	}
	i++

	if b.Rotation, err = fieldFloat4(lines, i); err != nil {
		return b, i, err
	}
	i++

	return b, i, nil
}

func parseStar(lines []string, i int) (Body, int, error) {
	b, i, err := parsePlanet(lines, i)
	if err != nil {
		return b, i, err
	}
	b.Kind = KindStar

	if b.Temperature, err = fieldFloat(lines, i); err != nil {
		return b, i, err
	}
	i++

	return b, i, nil
}

func parsePlanetAtmo(lines []string, i int) (Body, int, error) {
	b, i, err := parsePlanet(lines, i)
	if err != nil {
		return b, i, err
	}
	b.Kind = KindPlanetAtmo

	if b.AtmoColor, err = fieldFloat4(lines, i); err != nil {
		return b, i, err
	}
	i++

	if i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "ambientTexture:") {
		if b.AmbientTexture, err = fieldValue(lines, i); err != nil {
			return b, i, err
		}
		i++
	}

	return b, i, nil
}

func parseBlackHole(lines []string, i int) (Body, int, error) {
	b, i, err := parseCommon(lines, i)
	if err != nil {
		return b, i, err
	}
	b.Kind = KindBlackHole
	b.OrbitColor = [4]float32{0, 0, 0, 1}
	return b, i, nil
}

func fieldValue(lines []string, i int) (string, error) {
	if i >= len(lines) {
		return "", fmt.Errorf("unexpected end of file")
	}
	return extractValue(strings.TrimSpace(lines[i]))
}

func extractValue(line string) (string, error) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return "", fmt.Errorf("invalid line format: %q", line)
	}
	return strings.TrimSpace(line[colon+1:]), nil
}

func fieldFloat(lines []string, i int) (float64, error) {
	v, err := fieldValue(lines, i)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", v, err)
	}
	return f, nil
}

func fieldVec3(lines []string, i int) (body.Vec3, error) {
	v, err := fieldValue(lines, i)
	if err != nil {
		return body.Vec3{}, err
	}
	parts := strings.Fields(v)
	if len(parts) != 3 {
		return body.Vec3{}, fmt.Errorf("expected 3 values for vec3, got %d", len(parts))
	}

	var out [3]float64
	for j, p := range parts {
		if out[j], err = strconv.ParseFloat(p, 64); err != nil {
			return body.Vec3{}, fmt.Errorf("invalid number %q: %w", p, err)
		}
	}
	return body.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

func fieldFloat4(lines []string, i int) ([4]float32, error) {
	v, err := fieldValue(lines, i)
	if err != nil {
		return [4]float32{}, err
	}
	parts := strings.Fields(v)
	if len(parts) != 4 {
		return [4]float32{}, fmt.Errorf("expected 4 values, got %d", len(parts))
	}

	var out [4]float32
	for j, p := range parts {
		f, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return [4]float32{}, fmt.Errorf("invalid number %q: %w", p, err)
		}
		out[j] = float32(f)
	}
	return out, nil
}
