package gate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Request describes one authorization decision.
type Request struct {
	// ResourcePath is the absolute path the decision is about. Derived from
	// Resource when empty.
	ResourcePath string

	// Operation is the requested action.
	Operation Operation

	// ValueName, when set, asks for the value-level decision (canXxxValue)
	// instead of the whole-resource one. Only read, create, update and
	// delete have value-level forms.
	ValueName string

	// Resource is the materialized resource, when the caller has one. A
	// path-only stand-in is synthesized otherwise.
	Resource Resource

	// Resolver is handed through to gates untouched.
	Resolver Resolver
}

// Engine combines per-gate verdicts into one decision. An Engine is bound to
// a single context at construction; deployments that serve both contexts run
// one Engine per context over a shared registry.
//
// Evaluation is stateless: any number of Evaluate calls may run concurrently
// against the same registry.
type Engine struct {
	source      RegistrationSource
	gateContext Context
	gateTimeout time.Duration
	logger      *zap.Logger
}

// NewEngine creates an engine for the given context. gateTimeout bounds each
// individual gate call; a gate that exceeds it counts as CantDecide so one
// misbehaving gate cannot stall all authorization decisions. Zero disables
// the bound.
func NewEngine(source RegistrationSource, gateContext Context, gateTimeout time.Duration, logger *zap.Logger) *Engine {
	return &Engine{
		source:      source,
		gateContext: gateContext,
		gateTimeout: gateTimeout,
		logger:      logger,
	}
}

// Evaluate folds the verdicts of every applicable gate, highest ranking
// first:
//
//   - Granted stops the fold and wins unconditionally.
//   - Denied is remembered; it stops the fold only when the operation is one
//     of the registration's final operations.
//   - CantDecide is skipped and never triggers finality.
//
// With no applicable gates, or only CantDecide answers, the verdict is
// Granted: a grant is decisive, absence of denial is not a denial.
//
// An error is returned only for a malformed request (unknown operation, or a
// value-level request for an operation without a value form); gate faults
// never abort the fold.
func (e *Engine) Evaluate(ctx context.Context, req Request) (Result, error) {
	if _, err := ParseOperation(string(req.Operation)); err != nil {
		return Denied, err
	}
	if req.ValueName != "" && !req.Operation.HasValueVariant() {
		return Denied, fmt.Errorf("%w: %s", ErrNoValueVariant, req.Operation)
	}
	if req.ResourcePath == "" && req.Resource != nil {
		req.ResourcePath = req.Resource.Path()
	}
	if req.Resource == nil {
		req.Resource = NewResource(req.ResourcePath)
	}

	sawDenied := false
	for _, reg := range e.source.Registrations(e.gateContext) {
		if !reg.Matches(req.ResourcePath) || !reg.AppliesTo(req.Operation) {
			continue
		}

		switch e.invoke(ctx, reg, req) {
		case Granted:
			return Granted, nil
		case Denied:
			sawDenied = true
			if reg.IsFinal(req.Operation) {
				return Denied, nil
			}
		}
	}

	if sawDenied {
		return Denied, nil
	}
	return Granted, nil
}

// CanRead decides the read operation for res.
func (e *Engine) CanRead(ctx context.Context, res Resource) Result {
	return e.decide(ctx, Request{Operation: OperationRead, Resource: res})
}

// CanCreate decides the create operation for a path that does not exist yet.
func (e *Engine) CanCreate(ctx context.Context, path string, resolver Resolver) Result {
	return e.decide(ctx, Request{Operation: OperationCreate, ResourcePath: path, Resolver: resolver})
}

// CanUpdate decides the update operation for res.
func (e *Engine) CanUpdate(ctx context.Context, res Resource) Result {
	return e.decide(ctx, Request{Operation: OperationUpdate, Resource: res})
}

// CanDelete decides the delete operation for res.
func (e *Engine) CanDelete(ctx context.Context, res Resource) Result {
	return e.decide(ctx, Request{Operation: OperationDelete, Resource: res})
}

// CanExecute decides the execute operation for res.
func (e *Engine) CanExecute(ctx context.Context, res Resource) Result {
	return e.decide(ctx, Request{Operation: OperationExecute, Resource: res})
}

// CanOrderChildren decides the order-children operation for res.
func (e *Engine) CanOrderChildren(ctx context.Context, res Resource) Result {
	return e.decide(ctx, Request{Operation: OperationOrderChildren, Resource: res})
}

// CanReadValue decides read access to a single named value of res.
func (e *Engine) CanReadValue(ctx context.Context, res Resource, name string) Result {
	return e.decide(ctx, Request{Operation: OperationRead, Resource: res, ValueName: name})
}

// CanCreateValue decides create access to a single named value of res.
func (e *Engine) CanCreateValue(ctx context.Context, res Resource, name string) Result {
	return e.decide(ctx, Request{Operation: OperationCreate, Resource: res, ValueName: name})
}

// CanUpdateValue decides update access to a single named value of res.
func (e *Engine) CanUpdateValue(ctx context.Context, res Resource, name string) Result {
	return e.decide(ctx, Request{Operation: OperationUpdate, Resource: res, ValueName: name})
}

// CanDeleteValue decides delete access to a single named value of res.
func (e *Engine) CanDeleteValue(ctx context.Context, res Resource, name string) Result {
	return e.decide(ctx, Request{Operation: OperationDelete, Resource: res, ValueName: name})
}

// decide runs Evaluate for requests the wrappers already shaped correctly.
// A request error at this point is a programming fault; it downgrades to
// Denied since an unresolved fault must never grant access.
func (e *Engine) decide(ctx context.Context, req Request) Result {
	verdict, err := e.Evaluate(ctx, req)
	if err != nil {
		e.logger.Error("invalid decision request",
			zap.String("operation", string(req.Operation)),
			zap.Error(err))
		return Denied
	}
	return verdict
}

// invoke runs one gate call under the per-gate time bound.
func (e *Engine) invoke(ctx context.Context, reg *Registration, req Request) Result {
	if e.gateTimeout <= 0 {
		return e.dispatch(ctx, reg, req)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.gateTimeout)
	defer cancel()

	// The gate runs in its own goroutine so a blocked call cannot stall the
	// fold. A gate that ignores its context leaks the goroutine until it
	// returns; that is the price of not trusting gate code.
	verdicts := make(chan Result, 1)
	go func() {
		verdicts <- e.dispatch(callCtx, reg, req)
	}()

	select {
	case verdict := <-verdicts:
		return verdict
	case <-callCtx.Done():
		e.logger.Warn("gate call exceeded time bound, counting as cant-decide",
			zap.String("gate", reg.Name()),
			zap.String("operation", string(req.Operation)),
			zap.Duration("timeout", e.gateTimeout))
		return CantDecide
	}
}

// dispatch selects the gate method for the requested operation. A panicking
// gate counts as CantDecide for this gate only and never aborts the fold.
func (e *Engine) dispatch(ctx context.Context, reg *Registration, req Request) (verdict Result) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("gate panicked during decision, counting as cant-decide",
				zap.String("gate", reg.Name()),
				zap.String("operation", string(req.Operation)),
				zap.String("path", req.ResourcePath),
				zap.Any("panic", rec))
			verdict = CantDecide
		}
	}()

	if req.ValueName != "" {
		switch req.Operation {
		case OperationRead:
			return reg.gate.CanReadValue(ctx, req.Resource, req.ValueName)
		case OperationCreate:
			return reg.gate.CanCreateValue(ctx, req.Resource, req.ValueName)
		case OperationUpdate:
			return reg.gate.CanUpdateValue(ctx, req.Resource, req.ValueName)
		case OperationDelete:
			return reg.gate.CanDeleteValue(ctx, req.Resource, req.ValueName)
		}
		return CantDecide
	}

	switch req.Operation {
	case OperationRead:
		return reg.gate.CanRead(ctx, req.Resource)
	case OperationCreate:
		return reg.gate.CanCreate(ctx, req.ResourcePath, req.Resolver)
	case OperationUpdate:
		return reg.gate.CanUpdate(ctx, req.Resource)
	case OperationDelete:
		return reg.gate.CanDelete(ctx, req.Resource)
	case OperationExecute:
		return reg.gate.CanExecute(ctx, req.Resource)
	case OperationOrderChildren:
		return reg.orderChildren(ctx, req.Resource)
	}
	return CantDecide
}
