package gate

// RestrictionEvaluator answers the fast "could anything restrict this at
// all" questions. Every predicate is a pure existence check over the registry
// snapshot and never invokes a gate, so callers can use them to skip the full
// evaluation path entirely when no gate is in play.
type RestrictionEvaluator struct {
	source      RegistrationSource
	gateContext Context
}

// NewRestrictionEvaluator creates an evaluator for the given context.
func NewRestrictionEvaluator(source RegistrationSource, gateContext Context) *RestrictionEvaluator {
	return &RestrictionEvaluator{source: source, gateContext: gateContext}
}

// HasReadRestrictions reports whether any live registration covers read.
func (p *RestrictionEvaluator) HasReadRestrictions() bool {
	return p.hasRestrictions(OperationRead)
}

// HasCreateRestrictions reports whether any live registration covers create.
func (p *RestrictionEvaluator) HasCreateRestrictions() bool {
	return p.hasRestrictions(OperationCreate)
}

// HasUpdateRestrictions reports whether any live registration covers update.
func (p *RestrictionEvaluator) HasUpdateRestrictions() bool {
	return p.hasRestrictions(OperationUpdate)
}

// HasDeleteRestrictions reports whether any live registration covers delete.
func (p *RestrictionEvaluator) HasDeleteRestrictions() bool {
	return p.hasRestrictions(OperationDelete)
}

// HasExecuteRestrictions reports whether any live registration covers
// execute.
func (p *RestrictionEvaluator) HasExecuteRestrictions() bool {
	return p.hasRestrictions(OperationExecute)
}

// HasOrderChildrenRestrictions reports whether any live registration covers
// order-children. A gate that never implemented the capability still counts:
// assume restricted rather than open.
func (p *RestrictionEvaluator) HasOrderChildrenRestrictions() bool {
	return p.hasRestrictions(OperationOrderChildren)
}

// CanReadAllValues reports that no value-level read gate applies to path, so
// per-property read checks can be skipped wholesale.
func (p *RestrictionEvaluator) CanReadAllValues(path string) bool {
	return p.canAllValues(OperationRead, path)
}

// CanCreateAllValues reports that no value-level create gate applies to path.
func (p *RestrictionEvaluator) CanCreateAllValues(path string) bool {
	return p.canAllValues(OperationCreate, path)
}

// CanUpdateAllValues reports that no value-level update gate applies to path.
func (p *RestrictionEvaluator) CanUpdateAllValues(path string) bool {
	return p.canAllValues(OperationUpdate, path)
}

// CanDeleteAllValues reports that no value-level delete gate applies to path.
func (p *RestrictionEvaluator) CanDeleteAllValues(path string) bool {
	return p.canAllValues(OperationDelete, path)
}

func (p *RestrictionEvaluator) hasRestrictions(op Operation) bool {
	for _, reg := range p.source.Registrations(p.gateContext) {
		if reg.AppliesTo(op) {
			return true
		}
	}
	return false
}

func (p *RestrictionEvaluator) canAllValues(op Operation, path string) bool {
	for _, reg := range p.source.Registrations(p.gateContext) {
		if reg.AppliesTo(op) && reg.Matches(path) {
			return false
		}
	}
	return true
}
