// Package config describes simulation scenes as YAML documents.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	DefaultDt         = 0.01
	DefaultSteps      = 1000
	DefaultIntegrator = "euler"
	DefaultGravity    = -9.81
)

var ErrInvalid = errors.New("config: invalid scene")

type Config struct {
	Name          string         `yaml:"name"`
	Integrator    string         `yaml:"integrator"`
	Dt            float64        `yaml:"dt"`
	Steps         int            `yaml:"steps"`
	Gravity       mgl64.Vec3     `yaml:"gravity,flow"`
	ValidateState bool           `yaml:"validate_state"`
	Points        []PointConfig  `yaml:"points"`
	Springs       []SpringConfig `yaml:"springs"`
}

// PointConfig places one mass point. Fixed points are only attached through
// springs and never move.
type PointConfig struct {
	Position mgl64.Vec3 `yaml:"position,flow"`
	Velocity mgl64.Vec3 `yaml:"velocity,flow,omitempty"`
	Mass     float64    `yaml:"mass"`
	Damping  float64    `yaml:"damping,omitempty"`
	Fixed    bool       `yaml:"fixed,omitempty"`
}

// SpringConfig connects points A and B by index. A nil RestLength rests the
// spring at the initial distance between its endpoints.
type SpringConfig struct {
	A          int      `yaml:"a"`
	B          int      `yaml:"b"`
	Stiffness  float64  `yaml:"stiffness"`
	RestLength *float64 `yaml:"rest_length,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:          "untitled",
		Integrator:    DefaultIntegrator,
		Dt:            DefaultDt,
		Steps:         DefaultSteps,
		Gravity:       mgl64.Vec3{0, DefaultGravity, 0},
		ValidateState: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Variant() (dynamo.Variant, error) {
	return dynamo.ParseVariant(c.Integrator)
}

func (c *Config) Duration() float64 {
	return c.Dt * float64(c.Steps)
}

// Validate reports the first problem found in c.
func (c *Config) Validate() error {
	if _, err := c.Variant(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalid, c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalid, c.Steps)
	}
	if !finite(c.Gravity) {
		return fmt.Errorf("%w: gravity must be finite", ErrInvalid)
	}
	if len(c.Points) == 0 {
		return fmt.Errorf("%w: no points", ErrInvalid)
	}

	for i, p := range c.Points {
		if !finite(p.Position) || !finite(p.Velocity) {
			return fmt.Errorf("%w: point %d: position and velocity must be finite", ErrInvalid, i)
		}
		if !p.Fixed && (!(p.Mass > 0) || math.IsInf(p.Mass, 0)) {
			return fmt.Errorf("%w: point %d: mass must be positive, got %v", ErrInvalid, i, p.Mass)
		}
		if p.Damping < 0 {
			return fmt.Errorf("%w: point %d: damping must not be negative", ErrInvalid, i)
		}
	}

	for i, s := range c.Springs {
		if s.A < 0 || s.A >= len(c.Points) || s.B < 0 || s.B >= len(c.Points) {
			return fmt.Errorf("%w: spring %d: endpoint out of range", ErrInvalid, i)
		}
		if s.Stiffness < 0 {
			return fmt.Errorf("%w: spring %d: stiffness must not be negative", ErrInvalid, i)
		}
		if s.RestLength != nil && *s.RestLength < 0 {
			return fmt.Errorf("%w: spring %d: rest length must not be negative", ErrInvalid, i)
		}
	}
	return nil
}

func (c *Config) Clone() *Config {
	out := *c
	out.Points = append([]PointConfig(nil), c.Points...)
	out.Springs = make([]SpringConfig, len(c.Springs))
	for i, s := range c.Springs {
		out.Springs[i] = s
		if s.RestLength != nil {
			l := *s.RestLength
			out.Springs[i].RestLength = &l
		}
	}
	return &out
}

func finite(v mgl64.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
