// Package strategy defines the Strategy interface for rule-based trading
// strategies and provides a Registry for managing multiple strategy
// implementations.
package strategy

import (
	"sort"

	"backlab/internal/domain"
)

// Strategy is the interface that all backtestable strategies must implement.
// Init precomputes indicator series for the full bar slice; Decide is then
// called once per bar by the simulation loop. Indicator functions are pure,
// so computing them once in Init and indexing into the cached series during
// Decide is equivalent to recomputing them bar by bar.
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// Init performs one-time setup: it receives the full bar series and
	// computes the indicator series the strategy needs.
	Init(bars []domain.Bar) error

	// Warmup returns the number of leading bars to skip before Decide is
	// first invoked. It is only valid after Init.
	Warmup() int

	// Decide inspects the cached indicator values at bar index i and the
	// current position state, and emits at most one action. Undefined
	// indicator values at i must yield ActionNone.
	Decide(i int, pos domain.Position) domain.Signal
}

// Factory constructs a strategy from a parameter map. Unknown keys are
// ignored; missing keys fall back to the strategy's defaults.
type Factory func(params map[string]float64) Strategy

// Registry holds a named collection of strategy factories for lookup and
// enumeration.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a strategy factory to the registry under the given name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// New builds a strategy by name with the given parameters. The second return
// value indicates whether the strategy was found.
func (r *Registry) New(name string, params map[string]float64) (Strategy, bool) {
	f, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return f(params), true
}

// List returns a sorted slice of all registered strategy names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Param reads a named parameter with a default.
func Param(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}
