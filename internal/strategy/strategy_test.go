package strategy

import (
	"testing"

	"backlab/internal/domain"
)

// stubStrategy is a minimal Strategy implementation used in registry tests.
type stubStrategy struct {
	name   string
	params map[string]float64
}

func (s *stubStrategy) Name() string                                  { return s.name }
func (s *stubStrategy) Init(_ []domain.Bar) error                     { return nil }
func (s *stubStrategy) Warmup() int                                   { return 0 }
func (s *stubStrategy) Decide(_ int, _ domain.Position) domain.Signal { return domain.Signal{} }

func stubFactory(name string) Factory {
	return func(params map[string]float64) Strategy {
		return &stubStrategy{name: name, params: params}
	}
}

func TestRegistryRegisterAndNew(t *testing.T) {
	r := NewRegistry()
	r.Register("test-strategy", stubFactory("test-strategy"))

	got, ok := r.New("test-strategy", map[string]float64{"period": 14})
	if !ok {
		t.Fatal("New returned false for registered strategy")
	}
	if got.Name() != "test-strategy" {
		t.Errorf("New returned strategy with Name() = %q, want %q", got.Name(), "test-strategy")
	}
	if got.(*stubStrategy).params["period"] != 14 {
		t.Error("New did not pass parameters through to the factory")
	}
}

func TestRegistryNew_NotFound(t *testing.T) {
	r := NewRegistry()
	_, ok := r.New("nonexistent", nil)
	if ok {
		t.Error("New returned true for unregistered strategy")
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Register("beta", stubFactory("beta"))
	r.Register("alpha", stubFactory("alpha"))

	names := r.List()
	if len(names) != 2 {
		t.Fatalf("List returned %d names, want 2", len(names))
	}
	// List returns sorted names.
	if names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("List returned %v, want [alpha beta]", names)
	}
}

func TestParam(t *testing.T) {
	params := map[string]float64{"set": 7}

	if got := Param(params, "set", 1); got != 7 {
		t.Errorf("Param(set) = %v, want 7", got)
	}
	if got := Param(params, "missing", 42); got != 42 {
		t.Errorf("Param(missing) = %v, want default 42", got)
	}
	if got := Param(nil, "any", 3); got != 3 {
		t.Errorf("Param(nil map) = %v, want default 3", got)
	}
}
