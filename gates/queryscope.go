package gates

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sagarmiglani/accessgate/gate"
)

// QueryScopeConfig configures a QueryScopeGate.
type QueryScopeConfig struct {
	// Language restricts the gate to queries of one language. Empty means
	// any language.
	Language string `json:"language,omitempty"`

	// Clause is appended verbatim to the query.
	Clause string `json:"clause"`
}

// QueryScopeGate narrows queries by appending a scoping clause, leaving all
// access decisions to other gates. The rewrite is an efficiency measure only;
// results remain subject to read checks.
type QueryScopeGate struct {
	Base
	language string
	clause   string
}

// NewQueryScopeGate builds a gate from raw JSON configuration.
func NewQueryScopeGate(raw json.RawMessage) (gate.Gate, error) {
	var cfg QueryScopeConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("query scope gate config: %w", err)
	}
	if cfg.Clause == "" {
		return nil, fmt.Errorf("query scope gate config: clause is required")
	}
	return &QueryScopeGate{language: cfg.Language, clause: cfg.Clause}, nil
}

func (g *QueryScopeGate) TransformQuery(_ context.Context, query, language string, _ gate.Resolver) (string, error) {
	if g.language != "" && g.language != language {
		return query, nil
	}
	return query + g.clause, nil
}
