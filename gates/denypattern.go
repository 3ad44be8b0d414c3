package gates

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/sagarmiglani/accessgate/gate"
)

// DenyPatternConfig configures a DenyPatternGate.
type DenyPatternConfig struct {
	// Pattern is a regular expression; resources whose path contains a match
	// are denied.
	Pattern string `json:"pattern"`
}

// DenyPatternGate denies access to resources whose path matches its pattern
// and has no opinion anywhere else. Registered with final operations it acts
// as a hard block that no lower-ranked gate can soften.
type DenyPatternGate struct {
	Base
	pattern *regexp.Regexp
}

// NewDenyPatternGate builds a gate from raw JSON configuration.
func NewDenyPatternGate(raw json.RawMessage) (gate.Gate, error) {
	var cfg DenyPatternConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("deny pattern gate config: %w", err)
	}
	if cfg.Pattern == "" {
		return nil, fmt.Errorf("deny pattern gate config: pattern is required")
	}
	pattern, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("deny pattern gate config: invalid pattern %q: %w", cfg.Pattern, err)
	}
	return &DenyPatternGate{pattern: pattern}, nil
}

func (g *DenyPatternGate) decide(path string) gate.Result {
	if g.pattern.MatchString(path) {
		return gate.Denied
	}
	return gate.CantDecide
}

func (g *DenyPatternGate) CanRead(_ context.Context, res gate.Resource) gate.Result {
	return g.decide(res.Path())
}

func (g *DenyPatternGate) CanCreate(_ context.Context, path string, _ gate.Resolver) gate.Result {
	return g.decide(path)
}

func (g *DenyPatternGate) CanUpdate(_ context.Context, res gate.Resource) gate.Result {
	return g.decide(res.Path())
}

func (g *DenyPatternGate) CanDelete(_ context.Context, res gate.Resource) gate.Result {
	return g.decide(res.Path())
}

func (g *DenyPatternGate) CanExecute(_ context.Context, res gate.Resource) gate.Result {
	return g.decide(res.Path())
}

func (g *DenyPatternGate) CanOrderChildren(_ context.Context, res gate.Resource) gate.Result {
	return g.decide(res.Path())
}
