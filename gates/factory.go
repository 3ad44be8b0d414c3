package gates

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sagarmiglani/accessgate/gate"
)

// Gate type names understood by the default factory.
const (
	TypePathPrefix     = "path-prefix"
	TypeDenyPattern    = "deny-pattern"
	TypePropertyFilter = "property-filter"
	TypeQueryScope     = "query-scope"
)

// ErrUnknownGateType is returned when no builder is registered for a type.
var ErrUnknownGateType = errors.New("unknown gate type")

// Builder constructs a gate instance from raw JSON configuration.
type Builder func(config json.RawMessage) (gate.Gate, error)

// Factory maps gate type names to builders. Deployments extend it with their
// own gate types before loading registrations.
type Factory struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewFactory creates a factory pre-loaded with the built-in gate types.
func NewFactory() *Factory {
	f := &Factory{builders: make(map[string]Builder)}
	f.Register(TypePathPrefix, NewPathPrefixGate)
	f.Register(TypeDenyPattern, NewDenyPatternGate)
	f.Register(TypePropertyFilter, NewPropertyFilterGate)
	f.Register(TypeQueryScope, NewQueryScopeGate)
	return f
}

// Register adds or replaces the builder for a gate type.
func (f *Factory) Register(gateType string, builder Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[gateType] = builder
}

// Build constructs a gate of the given type.
func (f *Factory) Build(gateType string, config json.RawMessage) (gate.Gate, error) {
	f.mu.RLock()
	builder, ok := f.builders[gateType]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGateType, gateType)
	}
	return builder(config)
}

// Types returns the registered gate type names, sorted.
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.builders))
	for gateType := range f.builders {
		types = append(types, gateType)
	}
	sort.Strings(types)
	return types
}
