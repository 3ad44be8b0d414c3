// Package access binds persisted gate registrations to the live decision
// engine. It owns the shared registry and the per-context evaluation
// surfaces, and keeps them consistent with the registration store across
// create, update and delete.
package access

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sagarmiglani/accessgate/gate"
	"github.com/sagarmiglani/accessgate/gates"
	"github.com/sagarmiglani/accessgate/models"
	"github.com/sagarmiglani/accessgate/repositories"
	"github.com/sagarmiglani/accessgate/services"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// RestrictionReport carries the per-operation restriction existence flags
// for one context.
type RestrictionReport struct {
	Context       string `json:"context"`
	Read          bool   `json:"read"`
	Create        bool   `json:"create"`
	Update        bool   `json:"update"`
	Delete        bool   `json:"delete"`
	Execute       bool   `json:"execute"`
	OrderChildren bool   `json:"order_children"`
}

// ValueAccessReport answers whether every named value of a resource is
// accessible without per-value checks.
type ValueAccessReport struct {
	Context         string `json:"context"`
	Path            string `json:"path"`
	ReadAllValues   bool   `json:"read_all_values"`
	CreateAllValues bool   `json:"create_all_values"`
	UpdateAllValues bool   `json:"update_all_values"`
	DeleteAllValues bool   `json:"delete_all_values"`
}

// binding is the evaluation surface for one context over the shared
// registry.
type binding struct {
	engine       *gate.Engine
	transformer  *gate.QueryTransformer
	restrictions *gate.RestrictionEvaluator
}

// Service manages gate registrations and serves authorization decisions.
// The store is the source of truth; the registry mirrors its enabled rows.
type Service struct {
	repo     repositories.RegistrationRepository
	factory  *gates.Factory
	registry *gate.Registry
	bindings map[gate.Context]*binding
	logger   *zap.Logger

	// mu serializes store writes with the matching registry rebind so the
	// registry never drifts from the store under concurrent admin calls.
	mu   sync.Mutex
	live map[uuid.UUID]*gate.Registration
}

// NewService creates the access service with one engine, query transformer
// and restriction evaluator per context, all over a single shared registry.
func NewService(repo repositories.RegistrationRepository, factory *gates.Factory, gateTimeout time.Duration, logger *zap.Logger) *Service {
	registry := gate.NewRegistry(logger)

	bindings := make(map[gate.Context]*binding, 2)
	for _, c := range []gate.Context{gate.ContextApplication, gate.ContextProvider} {
		bindings[c] = &binding{
			engine:       gate.NewEngine(registry, c, gateTimeout, logger),
			transformer:  gate.NewQueryTransformer(registry, c, logger),
			restrictions: gate.NewRestrictionEvaluator(registry, c),
		}
	}

	return &Service{
		repo:     repo,
		factory:  factory,
		registry: registry,
		bindings: bindings,
		logger:   logger,
		live:     make(map[uuid.UUID]*gate.Registration),
	}
}

// Load binds every enabled stored registration into the registry. A row
// that no longer builds, because its gate type was withdrawn or its
// configuration is malformed, is logged and skipped so one bad row cannot
// keep the whole service down.
func (s *Service) Load(ctx context.Context) error {
	stored, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return services.WrapInternal(err, "failed to load gate registrations")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bound := 0
	for _, m := range stored {
		reg, err := s.bind(m)
		if err != nil {
			s.logger.Warn("skipping unbindable gate registration",
				zap.String("id", m.ID.String()),
				zap.String("name", m.Name),
				zap.String("gate_type", m.GateType),
				zap.Error(err))
			continue
		}
		s.registry.Add(reg)
		s.live[m.ID] = reg
		bound++
	}

	s.logger.Info("gate registrations loaded",
		zap.Int("stored", len(stored)),
		zap.Int("bound", bound))
	return nil
}

// CreateRegistration validates, persists and activates a new registration.
func (s *Service) CreateRegistration(ctx context.Context, m *models.GateRegistration) (*models.GateRegistration, error) {
	reg, err := s.bind(m)
	if err != nil {
		return nil, bindError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, storeError(err)
	}

	if m.Enabled {
		s.registry.Add(reg)
		s.live[m.ID] = reg
	}

	s.logger.Info("gate registration created",
		zap.String("id", m.ID.String()),
		zap.String("name", m.Name),
		zap.String("gate_type", m.GateType),
		zap.Bool("enabled", m.Enabled))
	return m, nil
}

// GetRegistration retrieves one registration by ID.
func (s *Service) GetRegistration(ctx context.Context, id uuid.UUID) (*models.GateRegistration, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return m, nil
}

// GetRegistrationByName retrieves one registration by its unique name.
func (s *Service) GetRegistrationByName(ctx context.Context, name string) (*models.GateRegistration, error) {
	m, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, storeError(err)
	}
	return m, nil
}

// ListRegistrations retrieves all registrations, ranking descending.
func (s *Service) ListRegistrations(ctx context.Context) ([]*models.GateRegistration, error) {
	regs, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return regs, nil
}

// UpdateRegistration persists m and swaps the live registration. The old
// gate stays active until the new one is validated and stored, so a bad
// update never leaves a gap in coverage.
func (s *Service) UpdateRegistration(ctx context.Context, m *models.GateRegistration) (*models.GateRegistration, error) {
	reg, err := s.bind(m)
	if err != nil {
		return nil, bindError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, storeError(err)
	}

	if old, ok := s.live[m.ID]; ok {
		s.registry.Remove(old)
		delete(s.live, m.ID)
	}
	if m.Enabled {
		s.registry.Add(reg)
		s.live[m.ID] = reg
	}

	s.logger.Info("gate registration updated",
		zap.String("id", m.ID.String()),
		zap.String("name", m.Name),
		zap.Bool("enabled", m.Enabled))
	return m, nil
}

// DeleteRegistration removes a registration from the store and the registry.
func (s *Service) DeleteRegistration(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err)
	}

	if old, ok := s.live[id]; ok {
		s.registry.Remove(old)
		delete(s.live, id)
	}

	s.logger.Info("gate registration deleted", zap.String("id", id.String()))
	return nil
}

// Decide runs one authorization decision in the named context.
func (s *Service) Decide(ctx context.Context, contextName string, req gate.Request) (gate.Result, error) {
	b, err := s.binding(contextName)
	if err != nil {
		return gate.Denied, err
	}

	verdict, err := b.engine.Evaluate(ctx, req)
	if err != nil {
		return gate.Denied, services.ErrInvalidOperation.WithDetail("reason", err.Error())
	}
	return verdict, nil
}

// TransformQuery runs the query through the named context's transformer
// chain.
func (s *Service) TransformQuery(ctx context.Context, contextName, query, language string) (string, error) {
	b, err := s.binding(contextName)
	if err != nil {
		return "", err
	}

	transformed, err := b.transformer.Transform(ctx, query, language, nil)
	if err != nil {
		return "", services.WrapError(err, services.ErrorTypeQueryTransform, "query transformation failed")
	}
	return transformed, nil
}

// Restrictions reports which operations have any live restriction in the
// named context.
func (s *Service) Restrictions(contextName string) (*RestrictionReport, error) {
	b, err := s.binding(contextName)
	if err != nil {
		return nil, err
	}

	r := b.restrictions
	return &RestrictionReport{
		Context:       contextName,
		Read:          r.HasReadRestrictions(),
		Create:        r.HasCreateRestrictions(),
		Update:        r.HasUpdateRestrictions(),
		Delete:        r.HasDeleteRestrictions(),
		Execute:       r.HasExecuteRestrictions(),
		OrderChildren: r.HasOrderChildrenRestrictions(),
	}, nil
}

// AllValues reports whether value-level checks can be skipped for path in
// the named context.
func (s *Service) AllValues(contextName, path string) (*ValueAccessReport, error) {
	b, err := s.binding(contextName)
	if err != nil {
		return nil, err
	}

	r := b.restrictions
	return &ValueAccessReport{
		Context:         contextName,
		Path:            path,
		ReadAllValues:   r.CanReadAllValues(path),
		CreateAllValues: r.CanCreateAllValues(path),
		UpdateAllValues: r.CanUpdateAllValues(path),
		DeleteAllValues: r.CanDeleteAllValues(path),
	}, nil
}

// GateTypes lists the gate type names the factory can build.
func (s *Service) GateTypes() []string {
	return s.factory.Types()
}

// LiveCount returns the number of live registrations in the registry.
func (s *Service) LiveCount() int {
	return s.registry.Len()
}

// bind builds the gate instance for m and wraps it in a validated
// registration.
func (s *Service) bind(m *models.GateRegistration) (*gate.Registration, error) {
	g, err := s.factory.Build(m.GateType, m.Config)
	if err != nil {
		return nil, err
	}

	return gate.NewRegistration(m.Name, g, gate.Options{
		Context:         m.Context,
		Path:            m.PathPattern,
		Operations:      m.Operations,
		FinalOperations: m.FinalOperations,
		Ranking:         m.Ranking,
	})
}

// binding resolves the evaluation surface for a context name.
func (s *Service) binding(contextName string) (*binding, error) {
	c, err := gate.ParseContext(contextName)
	if err != nil {
		return nil, services.ErrInvalidGateContext.WithDetail("context", contextName)
	}
	return s.bindings[c], nil
}

// bindError maps a factory or registration failure to a domain error.
func bindError(err error) error {
	if errors.Is(err, gates.ErrUnknownGateType) {
		return services.ErrUnknownGateType.WithDetail("reason", err.Error())
	}
	return services.ErrInvalidRegistration.WithDetail("reason", err.Error())
}

// storeError maps a repository failure to a domain error.
func storeError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return services.ErrRegistrationNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return services.ErrDuplicateName
	}

	return services.WrapInternal(err, "registration store failure")
}
