// Package gates provides ready-made access gate implementations and a
// factory that builds them from persisted registration configuration.
package gates

import (
	"context"

	"github.com/sagarmiglani/accessgate/gate"
)

// Base is an embeddable gate with no opinion: every decision answers
// CantDecide and queries pass through untouched. Gate implementations embed
// it and override only the methods they care about.
type Base struct{}

func (Base) CanRead(context.Context, gate.Resource) gate.Result { return gate.CantDecide }

func (Base) CanCreate(context.Context, string, gate.Resolver) gate.Result { return gate.CantDecide }

func (Base) CanUpdate(context.Context, gate.Resource) gate.Result { return gate.CantDecide }

func (Base) CanDelete(context.Context, gate.Resource) gate.Result { return gate.CantDecide }

func (Base) CanExecute(context.Context, gate.Resource) gate.Result { return gate.CantDecide }

func (Base) CanReadValue(context.Context, gate.Resource, string) gate.Result {
	return gate.CantDecide
}

func (Base) CanCreateValue(context.Context, gate.Resource, string) gate.Result {
	return gate.CantDecide
}

func (Base) CanUpdateValue(context.Context, gate.Resource, string) gate.Result {
	return gate.CantDecide
}

func (Base) CanDeleteValue(context.Context, gate.Resource, string) gate.Result {
	return gate.CantDecide
}

func (Base) TransformQuery(_ context.Context, query, _ string, _ gate.Resolver) (string, error) {
	return query, nil
}
