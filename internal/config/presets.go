package config

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Presets builds a fresh copy of each named scene on every call.
var Presets = map[string]func() *Config{
	"pair":     pairPreset,
	"drop":     dropPreset,
	"chain":    func() *Config { return chainPreset(8) },
	"cloth":    func() *Config { return clothPreset(6, 6) },
	"pendulum": pendulumPreset,
	"moon":     moonPreset,
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func restLength(l float64) *float64 { return &l }

func pairPreset() *Config {
	cfg := DefaultConfig()
	cfg.Name = "pair"
	cfg.Gravity = mgl64.Vec3{}
	cfg.Points = []PointConfig{
		{Position: mgl64.Vec3{0, 0, 0}, Mass: 1},
		{Position: mgl64.Vec3{2, 0, 0}, Mass: 1},
	}
	cfg.Springs = []SpringConfig{{A: 0, B: 1, Stiffness: 10, RestLength: restLength(1)}}
	return cfg
}

func dropPreset() *Config {
	cfg := DefaultConfig()
	cfg.Name = "drop"
	cfg.Steps = 100
	cfg.Points = []PointConfig{{Position: mgl64.Vec3{0, 10, 0}, Mass: 1}}
	return cfg
}

// chainPreset hangs n points from a fixed anchor along the x axis.
func chainPreset(n int) *Config {
	cfg := DefaultConfig()
	cfg.Name = "chain"
	cfg.Integrator = "verlet"
	cfg.Dt = 0.005
	cfg.Steps = 2000
	cfg.Points = append(cfg.Points, PointConfig{Fixed: true})
	for i := 1; i <= n; i++ {
		cfg.Points = append(cfg.Points, PointConfig{
			Position: mgl64.Vec3{float64(i) * 0.5, 0, 0},
			Mass:     0.2,
			Damping:  0.05,
		})
		cfg.Springs = append(cfg.Springs, SpringConfig{A: i - 1, B: i, Stiffness: 200})
	}
	return cfg
}

// clothPreset is a w×h grid pinned at its two top corners, with structural
// and shear springs.
func clothPreset(w, h int) *Config {
	cfg := DefaultConfig()
	cfg.Name = "cloth"
	cfg.Integrator = "leapfrog"
	cfg.Dt = 0.005
	cfg.Steps = 2000

	const spacing = 0.5
	idx := func(x, y int) int { return y*w + x }
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cfg.Points = append(cfg.Points, PointConfig{
				Position: mgl64.Vec3{float64(x) * spacing, -float64(y) * spacing, 0},
				Mass:     0.1,
				Damping:  0.02,
				Fixed:    y == 0 && (x == 0 || x == w-1),
			})
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x+1 < w {
				cfg.Springs = append(cfg.Springs, SpringConfig{A: idx(x, y), B: idx(x+1, y), Stiffness: 150})
			}
			if y+1 < h {
				cfg.Springs = append(cfg.Springs, SpringConfig{A: idx(x, y), B: idx(x, y+1), Stiffness: 150})
			}
			if x+1 < w && y+1 < h {
				cfg.Springs = append(cfg.Springs,
					SpringConfig{A: idx(x, y), B: idx(x+1, y+1), Stiffness: 50},
					SpringConfig{A: idx(x+1, y), B: idx(x, y+1), Stiffness: 50},
				)
			}
		}
	}
	return cfg
}

func pendulumPreset() *Config {
	cfg := DefaultConfig()
	cfg.Name = "pendulum"
	cfg.Integrator = "rk4"
	cfg.Steps = 2000
	cfg.Points = []PointConfig{
		{Fixed: true},
		{Position: mgl64.Vec3{2, 0, 0}, Mass: 1},
	}
	cfg.Springs = []SpringConfig{{A: 0, B: 1, Stiffness: 500}}
	return cfg
}

// moonPreset swings the pair under a tenth of earth gravity.
func moonPreset() *Config {
	cfg := pairPreset()
	cfg.Name = "moon"
	cfg.Integrator = "leapfrog"
	cfg.Gravity = mgl64.Vec3{0, -0.981, 0}
	return cfg
}
