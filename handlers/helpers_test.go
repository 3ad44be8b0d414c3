package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sagarmiglani/accessgate/gates"
	"github.com/sagarmiglani/accessgate/models"
	"github.com/sagarmiglani/accessgate/services/access"
)

// memoryRepo is an in-memory RegistrationRepository for handler tests.
type memoryRepo struct {
	byID map[uuid.UUID]*models.GateRegistration
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[uuid.UUID]*models.GateRegistration)}
}

func (r *memoryRepo) Create(_ context.Context, reg *models.GateRegistration) error {
	for _, existing := range r.byID {
		if existing.Name == reg.Name {
			return &pq.Error{Code: "23505"}
		}
	}
	clone := *reg
	r.byID[reg.ID] = &clone
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.GateRegistration, error) {
	reg, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("gate registration not found: %s: %w", id, sql.ErrNoRows)
	}
	clone := *reg
	return &clone, nil
}

func (r *memoryRepo) GetByName(_ context.Context, name string) (*models.GateRegistration, error) {
	for _, reg := range r.byID {
		if reg.Name == name {
			clone := *reg
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("gate registration not found: %s: %w", name, sql.ErrNoRows)
}

func (r *memoryRepo) List(_ context.Context) ([]*models.GateRegistration, error) {
	regs := make([]*models.GateRegistration, 0, len(r.byID))
	for _, reg := range r.byID {
		clone := *reg
		regs = append(regs, &clone)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Ranking > regs[j].Ranking })
	return regs, nil
}

func (r *memoryRepo) ListEnabled(ctx context.Context) ([]*models.GateRegistration, error) {
	all, _ := r.List(ctx)
	enabled := make([]*models.GateRegistration, 0, len(all))
	for _, reg := range all {
		if reg.Enabled {
			enabled = append(enabled, reg)
		}
	}
	return enabled, nil
}

func (r *memoryRepo) Update(_ context.Context, reg *models.GateRegistration) error {
	if _, ok := r.byID[reg.ID]; !ok {
		return fmt.Errorf("gate registration not found: %s: %w", reg.ID, sql.ErrNoRows)
	}
	clone := *reg
	r.byID[reg.ID] = &clone
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("gate registration not found: %s: %w", id, sql.ErrNoRows)
	}
	delete(r.byID, id)
	return nil
}

// newTestAccessService builds an access service over an in-memory store.
func newTestAccessService(t *testing.T) (*access.Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	logger := zap.NewNop()
	return access.NewService(repo, gates.NewFactory(), time.Second, logger), repo
}
