package gates

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sagarmiglani/accessgate/gate"
)

// PropertyFilterConfig configures a PropertyFilterGate.
type PropertyFilterConfig struct {
	// Properties lists the value names the gate denies access to.
	Properties []string `json:"properties"`
}

// PropertyFilterGate is a value-level gate: it denies access to the
// configured property names and has no opinion on whole-resource operations
// or on other properties. Typical use is hiding credential fields from
// readers that may otherwise see the resource.
type PropertyFilterGate struct {
	Base
	properties map[string]bool
}

// NewPropertyFilterGate builds a gate from raw JSON configuration.
func NewPropertyFilterGate(raw json.RawMessage) (gate.Gate, error) {
	var cfg PropertyFilterConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("property filter gate config: %w", err)
	}
	if len(cfg.Properties) == 0 {
		return nil, fmt.Errorf("property filter gate config: at least one property is required")
	}
	properties := make(map[string]bool, len(cfg.Properties))
	for _, name := range cfg.Properties {
		properties[name] = true
	}
	return &PropertyFilterGate{properties: properties}, nil
}

func (g *PropertyFilterGate) decide(name string) gate.Result {
	if g.properties[name] {
		return gate.Denied
	}
	return gate.CantDecide
}

func (g *PropertyFilterGate) CanReadValue(_ context.Context, _ gate.Resource, name string) gate.Result {
	return g.decide(name)
}

func (g *PropertyFilterGate) CanCreateValue(_ context.Context, _ gate.Resource, name string) gate.Result {
	return g.decide(name)
}

func (g *PropertyFilterGate) CanUpdateValue(_ context.Context, _ gate.Resource, name string) gate.Result {
	return g.decide(name)
}

func (g *PropertyFilterGate) CanDeleteValue(_ context.Context, _ gate.Resource, name string) gate.Result {
	return g.decide(name)
}
