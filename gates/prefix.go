package gates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sagarmiglani/accessgate/gate"
)

// PrefixConfig configures a PathPrefixGate.
type PrefixConfig struct {
	// Prefixes lists the path prefixes the gate grants access under.
	Prefixes []string `json:"prefixes"`
}

// PathPrefixGate grants access to resources under any of its configured path
// prefixes and has no opinion anywhere else. Combine it with the
// registration's operation set to scope which operations it grants.
type PathPrefixGate struct {
	Base
	prefixes []string
}

// NewPathPrefixGate builds a gate from raw JSON configuration.
func NewPathPrefixGate(raw json.RawMessage) (gate.Gate, error) {
	var cfg PrefixConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("prefix gate config: %w", err)
	}
	if len(cfg.Prefixes) == 0 {
		return nil, fmt.Errorf("prefix gate config: at least one prefix is required")
	}
	return &PathPrefixGate{prefixes: cfg.Prefixes}, nil
}

func (g *PathPrefixGate) decide(path string) gate.Result {
	for _, prefix := range g.prefixes {
		if strings.HasPrefix(path, prefix) {
			return gate.Granted
		}
	}
	return gate.CantDecide
}

func (g *PathPrefixGate) CanRead(_ context.Context, res gate.Resource) gate.Result {
	return g.decide(res.Path())
}

func (g *PathPrefixGate) CanCreate(_ context.Context, path string, _ gate.Resolver) gate.Result {
	return g.decide(path)
}

func (g *PathPrefixGate) CanUpdate(_ context.Context, res gate.Resource) gate.Result {
	return g.decide(res.Path())
}

func (g *PathPrefixGate) CanDelete(_ context.Context, res gate.Resource) gate.Result {
	return g.decide(res.Path())
}

func (g *PathPrefixGate) CanExecute(_ context.Context, res gate.Resource) gate.Result {
	return g.decide(res.Path())
}

func (g *PathPrefixGate) CanOrderChildren(_ context.Context, res gate.Resource) gate.Result {
	return g.decide(res.Path())
}
