// Package units holds physical constants and unit conversions for
// astronomical simulations. All simulation state is SI (meters, kilograms,
// seconds); these helpers exist for scenario files and display code that
// prefer astronomical units.
package units

// Gravitational constant in SI units (m^3 kg^-1 s^-2).
const GravitationalConstant = 6.67408e-11

// MetersPerAU is one astronomical unit in meters.
const MetersPerAU = 149_597_870_691.0

const (
	SolarMass   = 1.989e30 // kg
	EarthMass   = 5.972e24 // kg
	JupiterMass = 1.898e27 // kg

	SolarRadius = 6.96e8  // m
	EarthRadius = 6.371e6 // m

	SecondsPerDay  = 86400.0
	SecondsPerYear = 31_557_600.0

	SpeedOfLight = 299_792_458.0 // m/s
)

func MetersToAU(m float64) float64 { return m / MetersPerAU }
func AUToMeters(au float64) float64 { return au * MetersPerAU }

func MetersToKm(m float64) float64 { return m / 1000.0 }
func KmToMeters(km float64) float64 { return km * 1000.0 }

func SecondsToDays(s float64) float64 { return s / SecondsPerDay }
func DaysToSeconds(d float64) float64 { return d * SecondsPerDay }

func SecondsToYears(s float64) float64 { return s / SecondsPerYear }
func YearsToSeconds(y float64) float64 { return y * SecondsPerYear }

func KgToSolarMasses(kg float64) float64 { return kg / SolarMass }
func SolarMassesToKg(sm float64) float64 { return sm * SolarMass }

func KgToEarthMasses(kg float64) float64 { return kg / EarthMass }
func EarthMassesToKg(em float64) float64 { return em * EarthMass }
