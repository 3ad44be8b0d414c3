package gate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// QueryTransformer chains query rewriting across all gates of one context,
// highest ranking first. Query transformation is not operation- or
// path-scoped: every registration of the context participates.
type QueryTransformer struct {
	source      RegistrationSource
	gateContext Context
	logger      *zap.Logger
}

// NewQueryTransformer creates a transformer for the given context.
func NewQueryTransformer(source RegistrationSource, gateContext Context, logger *zap.Logger) *QueryTransformer {
	return &QueryTransformer{
		source:      source,
		gateContext: gateContext,
		logger:      logger,
	}
}

// Transform feeds query through every gate in ranking order, each gate
// receiving the previous gate's output. If no gate rewrites anything the
// original string comes back unchanged.
//
// A gate error aborts the chain immediately and is returned to the caller
// unchanged; the caller must not use a partially transformed query. The
// rewrite is advisory only: results are still subject to read checks, so a
// missing transform can never widen access.
func (t *QueryTransformer) Transform(ctx context.Context, query, language string, resolver Resolver) (string, error) {
	current := query
	for _, reg := range t.source.Registrations(t.gateContext) {
		next, err := t.apply(ctx, reg, current, language, resolver)
		if err != nil {
			t.logger.Warn("query transformation failed",
				zap.String("gate", reg.Name()),
				zap.String("language", language),
				zap.Error(err))
			return "", err
		}
		current = next
	}
	return current, nil
}

// apply invokes a single gate's TransformQuery, converting a panic into an
// error so a broken gate fails the chain instead of the process.
func (t *QueryTransformer) apply(ctx context.Context, reg *Registration, query, language string, resolver Resolver) (transformed string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("gate %q panicked during query transformation: %v", reg.Name(), rec)
		}
	}()
	return reg.gate.TransformQuery(ctx, query, language, resolver)
}
