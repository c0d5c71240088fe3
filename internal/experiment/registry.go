package experiment

import (
	"fmt"

	"github.com/san-kum/bellman/internal/economy"
	"github.com/san-kum/bellman/internal/hjb"
	"github.com/san-kum/bellman/internal/metrics"
)

type Registry struct {
	models map[string]func() hjb.Model
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func() hjb.Model),
	}

	r.models["crra"] = func() hjb.Model { return economy.NewCRRA() }
	r.models["log"] = func() hjb.Model { return economy.NewLog() }

	return r
}

func (r *Registry) GetModel(name string) (hjb.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	return names
}

func (r *Registry) DefaultMetrics() []hjb.Metric {
	return []hjb.Metric{
		metrics.NewResidual(),
		metrics.NewContraction(),
		metrics.NewPolicyMonotonicity(),
	}
}
