package gate

// Result is the verdict a gate returns for a single decision, and the final
// verdict the engine returns after combining all applicable gates.
//
// Combination order: Granted dominates everything, Denied dominates
// CantDecide, and CantDecide contributes nothing to the fold.
type Result string

const (
	// Granted means access is allowed. A single grant from any gate is
	// decisive for the whole evaluation.
	Granted Result = "granted"

	// Denied means access is refused. A deny only becomes the final verdict
	// if no later gate grants, or immediately when the operation is one of
	// the registration's final operations.
	Denied Result = "denied"

	// CantDecide means the gate has no opinion. It never affects the
	// outcome and never triggers a finality short-circuit.
	CantDecide Result = "cant-decide"
)
