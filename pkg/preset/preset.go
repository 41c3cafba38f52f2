// Package preset loads named transition presets from YAML or TOML files.
//
// A preset describes the physics of one or more springs and how they are
// scheduled. It carries no outputs: [Preset.Config] binds a tick function
// to each spring and returns a config ready for the animation package.
//
//	presets:
//	  stagger:
//	    schedule: sequential
//	    springs:
//	      - {name: title, spring: {stiffness: 400, damping: 35}}
//	      - {name: body, spring: {stiffness: 400, damping: 35}}
package preset

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/transit/pkg/animation"
	"github.com/go-drift/transit/pkg/errors"
	"github.com/go-drift/transit/pkg/integrator"
	"github.com/go-drift/transit/pkg/runner"
)

//go:embed defaults.yaml
var defaults []byte

// Format is a preset file encoding.
type Format int

const (
	// FormatYAML is used for .yaml and .yml files.
	FormatYAML Format = iota
	// FormatTOML is used for .toml files.
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, errors.Configf("preset.Load", errors.ErrInvalidParams, "unsupported preset file %q", path)
	}
}

// Set is a collection of named presets.
type Set struct {
	Presets map[string]Preset `yaml:"presets" toml:"presets"`
}

// Preset describes the springs of a transition.
type Preset struct {
	Description string             `yaml:"description,omitempty" toml:"description,omitempty"`
	Schedule    animation.Schedule `yaml:"schedule,omitempty" toml:"schedule,omitempty"`
	Range       *animation.Range   `yaml:"range,omitempty" toml:"range,omitempty"`
	Springs     []Spring           `yaml:"springs" toml:"springs"`
}

// Spring is one spring of a preset. At most one of Spring and Inertia may
// be set; neither means [animation.DefaultSpring].
type Spring struct {
	Name    string                    `yaml:"name,omitempty" toml:"name,omitempty"`
	Spring  *integrator.SpringParams  `yaml:"spring,omitempty" toml:"spring,omitempty"`
	Inertia *integrator.InertiaParams `yaml:"inertia,omitempty" toml:"inertia,omitempty"`
	Offset  float64                   `yaml:"offset,omitempty" toml:"offset,omitempty"`

	// Analytic integrates Spring in closed form with harmonica.
	Analytic bool `yaml:"analytic,omitempty" toml:"analytic,omitempty"`
}

// Default returns the built-in presets.
func Default() *Set {
	s, err := Parse(defaults, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("preset: invalid built-in presets: %v", err))
	}
	return s
}

// Load reads a preset file. The format follows the file extension.
func Load(path string) (*Set, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates presets.
func Parse(data []byte, format Format) (*Set, error) {
	const op = "preset.Parse"
	var s Set
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Config(op, err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, errors.Config(op, err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, errors.Configf(op, errors.ErrInvalidParams, "unknown key %q", keys[0].String())
		}
	default:
		return nil, errors.Configf(op, errors.ErrInvalidParams, "unknown format %v", format)
	}

	for _, name := range s.Names() {
		if _, err := s.Presets[name].Config(nil); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return &s, nil
}

// Names returns the preset names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.Presets))
	for name := range s.Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the named preset.
func (s *Set) Get(name string) (Preset, bool) {
	p, ok := s.Presets[name]
	return p, ok
}

// Config builds a normalized config for the preset. tick, when non-nil,
// returns the output of spring i; a nil tick leaves the spring without
// output.
func (p Preset) Config(tick func(i int, s Spring) runner.TickFunc) (animation.MultiConfig, error) {
	const op = "preset.Config"
	cfg := animation.MultiConfig{Schedule: p.Schedule, Range: p.Range}
	for i, s := range p.Springs {
		item := animation.SpringItem{
			Spring:  s.Spring,
			Inertia: s.Inertia,
			Offset:  s.Offset,
		}
		if s.Analytic {
			if s.Spring == nil {
				return animation.MultiConfig{}, errors.Configf(op, errors.ErrInvalidParams, "spring %d: analytic requires spring parameters", i)
			}
			f, err := integrator.HarmonicaFactory(*s.Spring)
			if err != nil {
				return animation.MultiConfig{}, err
			}
			item.Spring, item.Integrator = nil, f
		}
		if tick != nil {
			item.Tick = tick(i, s)
		}
		cfg.Springs = append(cfg.Springs, item)
	}
	return animation.Normalize(cfg, nil)
}

// Label names spring i for display.
func (s Spring) Label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("spring %d", i+1)
}

// Kind describes the spring's physics.
func (s Spring) Kind() string {
	switch {
	case s.Inertia != nil:
		return fmt.Sprintf("inertia a=%g r=%g %s", s.Inertia.Acceleration, s.Inertia.Resistance, s.Inertia.ResistanceType)
	case s.Spring == nil:
		return fmt.Sprintf("spring k=%g c=%g", animation.DefaultSpring.Stiffness, animation.DefaultSpring.Damping)
	case s.Analytic:
		return fmt.Sprintf("analytic k=%g c=%g", s.Spring.Stiffness, s.Spring.Damping)
	case s.Spring.Double != nil:
		return fmt.Sprintf("double k=%g c=%g", s.Spring.Stiffness, s.Spring.Damping)
	default:
		return fmt.Sprintf("spring k=%g c=%g", s.Spring.Stiffness, s.Spring.Damping)
	}
}

// Integrator builds the integrator the spring runs with.
func (s Spring) Integrator() (integrator.Integrator, error) {
	p := animation.DefaultSpring
	if s.Spring != nil {
		p = *s.Spring
	}
	switch {
	case s.Inertia != nil:
		return integrator.FromInertia(*s.Inertia)
	case s.Analytic:
		return integrator.NewHarmonica(p)
	default:
		return integrator.FromSpring(p)
	}
}
