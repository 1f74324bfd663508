// Package optim searches scene parameters for the values that minimise a
// run metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/experiment"
)

var ErrNoTrial = errors.New("optim: no trial completed")

// Param is one swept dimension.
type Param struct {
	Name   string
	Values []float64
}

// Trial is one point of the grid. Value is +Inf for failed runs.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	params []Param
}

func NewGridSearch(params []Param) *GridSearch {
	return &GridSearch{params: params}
}

// Search runs every combination of parameter values and returns the trial
// with the lowest metric along with all trials in grid order. Runs that fail
// are recorded but never chosen; cancelling ctx aborts the search.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (Trial, []Trial, error) {
	var trials []Trial
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &trials); err != nil {
		return Trial{}, trials, err
	}

	best := -1
	for i, tr := range trials {
		if tr.Err == nil && (best < 0 || tr.Value < trials[best].Value) {
			best = i
		}
	}
	if best < 0 {
		return Trial{}, trials, ErrNoTrial
	}
	return trials[best], trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.params) {
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		trial := Trial{Params: params, Value: math.Inf(1)}

		exp, err := buildExperiment(params)
		if err != nil {
			trial.Err = err
			*trials = append(*trials, trial)
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			trial.Err = err
			*trials = append(*trials, trial)
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric: %s", metricName)
		}
		trial.Value = val
		*trials = append(*trials, trial)
		return nil
	}

	p := g.params[depth]
	for _, val := range p.Values {
		current[p.Name] = val
		if err := g.searchRecursive(ctx, depth+1, current, buildExperiment, metricName, trials); err != nil {
			return err
		}
	}
	delete(current, p.Name)
	return nil
}

// SceneParams lists the parameter names ApplyParams understands.
func SceneParams() []string {
	names := make([]string, 0, len(sceneParams))
	for name := range sceneParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var sceneParams = map[string]func(cfg *config.Config, v float64){
	"dt": func(cfg *config.Config, v float64) { cfg.Dt = v },
	"stiffness": func(cfg *config.Config, v float64) {
		for i := range cfg.Springs {
			cfg.Springs[i].Stiffness = v
		}
	},
	"damping": func(cfg *config.Config, v float64) {
		for i := range cfg.Points {
			cfg.Points[i].Damping = v
		}
	},
	"gravity": func(cfg *config.Config, v float64) { cfg.Gravity[1] = -v },
}

// ApplyParams returns a copy of cfg with params applied.
func ApplyParams(cfg *config.Config, params map[string]float64) (*config.Config, error) {
	out := cfg.Clone()
	for name, v := range params {
		apply, ok := sceneParams[name]
		if !ok {
			return nil, fmt.Errorf("unknown parameter: %s (available: %v)", name, SceneParams())
		}
		apply(out, v)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// SceneBuilder builds experiments from cfg with the registry's default
// metrics, for use with Search.
func SceneBuilder(cfg *config.Config, reg *experiment.Registry) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		c, err := ApplyParams(cfg, params)
		if err != nil {
			return nil, err
		}
		exp := experiment.New(c)
		if err := exp.Setup(reg.DefaultMetrics()); err != nil {
			return nil, err
		}
		return exp, nil
	}
}
