package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/metrics"
)

// DefaultStabilityThreshold is the speed above which a step counts as unstable.
const DefaultStabilityThreshold = 100.0

type Registry struct {
	metrics map[string]func() dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() dynamo.Metric),
	}

	r.metrics["energy"] = func() dynamo.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() dynamo.Metric { return metrics.NewEnergyDrift() }
	r.metrics["momentum"] = func() dynamo.Metric { return metrics.NewMomentum() }
	r.metrics["stability"] = func() dynamo.Metric { return metrics.NewStability(DefaultStabilityThreshold) }

	return r
}

func (r *Registry) GetMetric(name string) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListVariants() []string {
	vs := dynamo.Variants()
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.String()
	}
	return names
}

func (r *Registry) GetPreset(name string) (*config.Config, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return cfg, nil
}

// DefaultMetrics returns fresh instances of every registered metric.
func (r *Registry) DefaultMetrics() []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}
