package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueryTransformer_Transform(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	ctx := context.Background()

	t.Run("no gates returns the query unchanged", func(t *testing.T) {
		transformer := NewQueryTransformer(NewRegistry(logger), ContextApplication, logger)
		query, err := transformer.Transform(ctx, "SELECT *", "sql", nil)
		require.NoError(t, err)
		assert.Equal(t, "SELECT *", query)
	})

	t.Run("chains in ranking order", func(t *testing.T) {
		registry := NewRegistry(logger)
		mustRegister(t, registry, "a", &stubGate{transform: func(q string) (string, error) {
			return q + " AND x=1", nil
		}}, Options{Ranking: 10})
		mustRegister(t, registry, "b", &stubGate{transform: func(q string) (string, error) {
			return q + " AND y=2", nil
		}}, Options{Ranking: 5})

		transformer := NewQueryTransformer(registry, ContextApplication, logger)
		query, err := transformer.Transform(ctx, "SELECT *", "sql", nil)
		require.NoError(t, err)
		assert.Equal(t, "SELECT * AND x=1 AND y=2", query)
	})

	t.Run("gate error aborts the chain and propagates unchanged", func(t *testing.T) {
		errUnsafe := errors.New("query cannot be safely rewritten")
		registry := NewRegistry(logger)
		laterGate := &stubGate{transform: func(q string) (string, error) {
			return q + " AND y=2", nil
		}}
		mustRegister(t, registry, "failing", &stubGate{transform: func(string) (string, error) {
			return "", errUnsafe
		}}, Options{Ranking: 10})
		mustRegister(t, registry, "later", laterGate, Options{Ranking: 5})

		transformer := NewQueryTransformer(registry, ContextApplication, logger)
		_, err := transformer.Transform(ctx, "SELECT *", "sql", nil)
		assert.ErrorIs(t, err, errUnsafe)
		assert.Equal(t, 0, laterGate.calls)
	})

	t.Run("transformation ignores operation and path scoping", func(t *testing.T) {
		registry := NewRegistry(logger)
		mustRegister(t, registry, "narrow", &stubGate{transform: func(q string) (string, error) {
			return q + " AND z=3", nil
		}}, Options{
			Path:       "/a-path-nothing-queries",
			Operations: []string{"delete"},
		})

		transformer := NewQueryTransformer(registry, ContextApplication, logger)
		query, err := transformer.Transform(ctx, "SELECT *", "sql", nil)
		require.NoError(t, err)
		assert.Equal(t, "SELECT * AND z=3", query)
	})

	t.Run("contexts are isolated", func(t *testing.T) {
		registry := NewRegistry(logger)
		mustRegister(t, registry, "provider", &stubGate{transform: func(q string) (string, error) {
			return q + " AND p=1", nil
		}}, Options{Context: "provider"})

		transformer := NewQueryTransformer(registry, ContextApplication, logger)
		query, err := transformer.Transform(ctx, "SELECT *", "sql", nil)
		require.NoError(t, err)
		assert.Equal(t, "SELECT *", query)
	})

	t.Run("panic during transform becomes an error", func(t *testing.T) {
		registry := NewRegistry(logger)
		mustRegister(t, registry, "broken", &stubGate{transform: func(string) (string, error) {
			panic("transform exploded")
		}}, Options{})

		transformer := NewQueryTransformer(registry, ContextApplication, logger)
		_, err := transformer.Transform(ctx, "SELECT *", "sql", nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})
}
