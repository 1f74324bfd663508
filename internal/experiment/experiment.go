// Package experiment hosts simulations: it builds scenes from configs, drives
// the fixed-step loop and collects trajectories and metrics.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
)

type Result struct {
	Scene   string
	Variant dynamo.Variant
	Times   []float64
	States  [][]float64
	Metrics map[string]float64
	Steps   int
}

type Experiment struct {
	cfg     *config.Config
	scene   *Scene
	metrics []dynamo.Metric
	result  *Result
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(metrics []dynamo.Metric) error {
	scene, err := NewScene(e.cfg)
	if err != nil {
		return err
	}
	e.scene = scene
	e.metrics = metrics
	for _, m := range metrics {
		scene.Simulator().AddMetric(m)
	}
	e.result = &Result{Scene: e.cfg.Name}
	scene.Simulator().AddObserver(&recorder{scene: scene, result: e.result})
	return nil
}

// Run takes the configured number of steps. On failure it returns the
// trajectory recorded so far together with the error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.scene == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	res := e.result
	res.Variant = e.scene.Variant()
	res.Times = append(make([]float64, 0, e.cfg.Steps+1), e.scene.Simulator().Time())
	res.States = append(make([][]float64, 0, e.cfg.Steps+1), e.scene.Frame())
	res.Steps = 0

	var runErr error
	for i := 0; i < e.cfg.Steps; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := e.scene.Step(); err != nil {
			runErr = fmt.Errorf("scene %s: %w", e.cfg.Name, err)
			break
		}
		res.Steps++
	}

	res.Metrics = e.scene.Simulator().Metrics()
	return res, runErr
}

func (e *Experiment) Scene() *Scene { return e.scene }

type recorder struct {
	scene  *Scene
	result *Result
}

func (r *recorder) OnStep(s *dynamo.Simulator) {
	r.result.Times = append(r.result.Times, s.Time())
	r.result.States = append(r.result.States, r.scene.Frame())
}
