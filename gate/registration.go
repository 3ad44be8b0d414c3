package gate

import (
	"context"
	"fmt"
	"regexp"
)

// Option names recognized in registration configuration.
const (
	PropContext         = "access.context"
	PropPath            = "path"
	PropOperations      = "operations"
	PropFinalOperations = "finaloperations"
)

// Options configures one gate registration. All fields except Context are
// optional.
type Options struct {
	// Context is required: "application" or "provider".
	Context string

	// Path is a regular expression scoping the registration to matching
	// resource paths. It must match the full path. Empty means every path.
	Path string

	// Operations lists the operations the gate should be consulted for.
	// Empty means all six operations.
	Operations []string

	// FinalOperations lists operations for which a Denied verdict from this
	// gate stops evaluation. Expected to be a subset of Operations; an entry
	// outside the applicable set is accepted but never reached.
	FinalOperations []string

	// Ranking orders gates during evaluation; higher runs first. Ties keep
	// registration order.
	Ranking int
}

// Registration is the immutable bundle of one live gate plus its
// applicability metadata. Replacing any field requires removing the
// registration and adding a new one; evaluation never mutates it, so a single
// Registration is safe to share across concurrent evaluations.
type Registration struct {
	name            string
	gate            Gate
	gateContext     Context
	pattern         *regexp.Regexp // nil matches every path
	operations      map[Operation]bool
	finalOperations map[Operation]bool
	ranking         int
	orderChildren   func(ctx context.Context, res Resource) Result
}

// NewRegistration validates opts and binds g into a Registration. A missing
// or invalid context, an uncompilable path pattern, or an unknown operation
// name is a registration error; the caller must not add such a gate to any
// registry.
func NewRegistration(name string, g Gate, opts Options) (*Registration, error) {
	if g == nil {
		return nil, fmt.Errorf("registration %q: %w", name, ErrNilGate)
	}

	gctx, err := ParseContext(opts.Context)
	if err != nil {
		return nil, fmt.Errorf("registration %q: %w", name, err)
	}

	var pattern *regexp.Regexp
	if opts.Path != "" {
		// Anchor so the pattern must cover the whole path, matching the
		// original full-match semantics.
		pattern, err = regexp.Compile(`\A(?:` + opts.Path + `)\z`)
		if err != nil {
			return nil, fmt.Errorf("registration %q: invalid path pattern %q: %w", name, opts.Path, err)
		}
	}

	operations, err := parseOperationSet(opts.Operations)
	if err != nil {
		return nil, fmt.Errorf("registration %q: %w", name, err)
	}
	if len(operations) == 0 {
		operations = make(map[Operation]bool, len(AllOperations()))
		for _, op := range AllOperations() {
			operations[op] = true
		}
	}

	finalOperations, err := parseOperationSet(opts.FinalOperations)
	if err != nil {
		return nil, fmt.Errorf("registration %q: %w", name, err)
	}

	reg := &Registration{
		name:            name,
		gate:            g,
		gateContext:     gctx,
		pattern:         pattern,
		operations:      operations,
		finalOperations: finalOperations,
		ranking:         opts.Ranking,
	}

	// Bind the optional order-children capability now so the evaluation path
	// has one uniform call shape.
	if og, ok := g.(ChildOrderGate); ok {
		reg.orderChildren = og.CanOrderChildren
	} else {
		reg.orderChildren = func(context.Context, Resource) Result { return CantDecide }
	}

	return reg, nil
}

// Name returns the registration's identity used in logs.
func (r *Registration) Name() string { return r.name }

// Context returns the context the registration is scoped to.
func (r *Registration) Context() Context { return r.gateContext }

// Ranking returns the evaluation priority; higher runs first.
func (r *Registration) Ranking() int { return r.ranking }

// Matches reports whether the registration's path pattern covers path.
func (r *Registration) Matches(path string) bool {
	if r.pattern == nil {
		return true
	}
	return r.pattern.MatchString(path)
}

// AppliesTo reports whether the registration declares op.
func (r *Registration) AppliesTo(op Operation) bool {
	return r.operations[op]
}

// IsFinal reports whether a Denied verdict for op stops evaluation.
func (r *Registration) IsFinal(op Operation) bool {
	return r.finalOperations[op]
}

func parseOperationSet(names []string) (map[Operation]bool, error) {
	set := make(map[Operation]bool, len(names))
	for _, name := range names {
		op, err := ParseOperation(name)
		if err != nil {
			return nil, err
		}
		set[op] = true
	}
	return set, nil
}
