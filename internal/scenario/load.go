package scenario

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/perihelion-dev/astrosim/internal/body"
	"github.com/perihelion-dev/astrosim/internal/units"
)

// yamlScenario mirrors the YAML scenario file layout.
type yamlScenario struct {
	Name      string     `yaml:"name"`
	AutoOrbit bool       `yaml:"auto_orbit"`
	Bodies    []yamlBody `yaml:"bodies"`
}

type yamlBody struct {
	Name     string     `yaml:"name"`
	Kind     string     `yaml:"kind"`
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
	Radius   float64    `yaml:"radius"`
}

// Load reads a scenario file, dispatching on extension: .yaml/.yml for the
// YAML form, anything else for the v3 text format.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(string(data))
	}
}

// ParseYAML reads the YAML scenario form. With auto_orbit set, bodies with
// zero initial velocity get a circular-orbit velocity around the first body
// in the file.
func ParseYAML(data []byte) (*Scenario, error) {
	var y yamlScenario
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	s := &Scenario{}
	for idx, b := range y.Bodies {
		if b.Mass < 0 {
			return nil, fmt.Errorf("scenario: body %d %q: negative mass", idx, b.Name)
		}
		kind := Kind(b.Kind)
		if kind == "" {
			kind = KindPlanet
		}
		switch kind {
		case KindPlanet, KindStar, KindPlanetAtmo, KindBlackHole:
		default:
			return nil, fmt.Errorf("scenario: body %d %q: unknown kind %q", idx, b.Name, b.Kind)
		}

		s.Bodies = append(s.Bodies, Body{
			Name:     b.Name,
			Kind:     kind,
			Mass:     b.Mass,
			Position: body.Vec3{X: b.Position[0], Y: b.Position[1], Z: b.Position[2]},
			Velocity: body.Vec3{X: b.Velocity[0], Y: b.Velocity[1], Z: b.Velocity[2]},
			Radius:   b.Radius,
		})
	}

	if y.AutoOrbit {
		autoOrbit(s.Bodies)
	}
	return s, nil
}

// autoOrbit assigns circular-orbit velocities around the first body to
// every later body whose velocity is zero. The orbit plane is xy.
func autoOrbit(bodies []Body) {
	if len(bodies) == 0 {
		return
	}
	central := bodies[0]

	for i := 1; i < len(bodies); i++ {
		if !bodies[i].Velocity.IsZero() {
			continue
		}

		offset := bodies[i].Position.Sub(central.Position)
		r := math.Hypot(offset.X, offset.Y)
		if r == 0 {
			continue
		}

		v := math.Sqrt(units.GravitationalConstant * central.Mass / r)
		bodies[i].Velocity = body.Vec3{
			X: -offset.Y / r * v,
			Y: offset.X / r * v,
		}
		bodies[i].Velocity = bodies[i].Velocity.Add(central.Velocity)
	}
}

// Builtin returns the fallback Sun-Earth scenario used when a loaded
// scenario yields no bodies.
func Builtin() *Scenario {
	return &Scenario{
		Bodies: []Body{
			{
				Name:        "Sun",
				Kind:        KindStar,
				Mass:        units.SolarMass,
				Radius:      units.SolarRadius,
				Temperature: 5778,
			},
			{
				Name:     "Earth",
				Kind:     KindPlanet,
				Mass:     units.EarthMass,
				Radius:   units.EarthRadius,
				Position: body.Vec3{X: units.MetersPerAU},
				Velocity: body.Vec3{Y: 29780},
			},
		},
	}
}

// Coordinator is the part of the simulation coordinator Install needs.
type Coordinator interface {
	AddBody(b *body.Body) error
	FlushBodies() error
}

// Install adds every scenario body to the coordinator and flushes, so all
// of them are committed members before the simulation starts. An empty
// scenario installs the builtin fallback instead.
func Install(c Coordinator, s *Scenario) error {
	if len(s.Bodies) == 0 {
		s = Builtin()
	}
	for _, sb := range s.Bodies {
		if err := c.AddBody(sb.NewBody()); err != nil {
			return err
		}
	}
	return c.FlushBodies()
}
