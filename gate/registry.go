package gate

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// RegistrationSource supplies the current ordered set of live registrations
// for a context. The engine, query transformer and restriction evaluator all
// consume this interface rather than a concrete registry.
type RegistrationSource interface {
	// Registrations returns a consistent snapshot of the registrations for
	// c, ordered by ranking descending with ties in registration order. The
	// returned slice is owned by the caller; later registry mutations must
	// not be observable through it.
	Registrations(c Context) []*Registration
}

// Registry is the standard RegistrationSource: a shared, mutable collection
// of registrations with snapshot reads. Mutations re-sort the collection so
// reads pay only a copy. No lock is ever held across a gate invocation.
type Registry struct {
	mu     sync.RWMutex
	regs   []*Registration
	logger *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{logger: logger}
}

// Add inserts reg and restores ranking order. The stable sort keeps
// registrations of equal ranking in insertion order.
func (r *Registry) Add(reg *Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.regs = append(r.regs, reg)
	sort.SliceStable(r.regs, func(i, j int) bool {
		return r.regs[i].ranking > r.regs[j].ranking
	})

	r.logger.Info("gate registered",
		zap.String("gate", reg.Name()),
		zap.String("context", string(reg.Context())),
		zap.Int("ranking", reg.Ranking()),
		zap.Int("total", len(r.regs)))
}

// Remove withdraws reg. It reports whether the registration was present.
// Evaluations already holding a snapshot keep seeing the removed gate until
// they finish their fold.
func (r *Registry) Remove(reg *Registration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.regs {
		if existing == reg {
			r.regs = append(r.regs[:i], r.regs[i+1:]...)
			r.logger.Info("gate withdrawn",
				zap.String("gate", reg.Name()),
				zap.Int("total", len(r.regs)))
			return true
		}
	}
	return false
}

// Registrations implements RegistrationSource.
func (r *Registry) Registrations(c Context) []*Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]*Registration, 0, len(r.regs))
	for _, reg := range r.regs {
		if reg.Context() == c {
			snapshot = append(snapshot, reg)
		}
	}
	return snapshot
}

// Len returns the number of live registrations across all contexts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.regs)
}
