package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/optim"
)

// loadScene resolves the scene from --preset, a YAML file, or a preset name
// given as the argument, then applies flags the user set explicitly.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	case len(args) > 0:
		loaded, err := config.Load(args[0])
		if errors.Is(err, os.ErrNotExist) {
			if p := config.GetPreset(args[0]); p != nil {
				loaded, err = p, nil
			}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load scene: %w", err)
		}
		cfg = loaded
	default:
		return nil, fmt.Errorf("specify a scene file or --preset (available: %v)", config.ListPresets())
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("no-validate") {
		cfg.ValidateState = !noValidate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseSweep turns "name=v1,v2" flags into grid dimensions.
func parseSweep(args []string) ([]optim.Param, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one --param is required")
	}
	params := make([]optim.Param, 0, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || name == "" || list == "" {
			return nil, fmt.Errorf("invalid --param %q, want name=v1,v2", arg)
		}
		p := optim.Param{Name: strings.TrimSpace(name)}
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid --param %q: %w", arg, err)
			}
			p.Values = append(p.Values, v)
		}
		params = append(params, p)
	}
	return params, nil
}
