package gate

import "fmt"

// Operation identifies an action on a resource. The string form is the
// canonical wire name used in registration options and API payloads.
type Operation string

const (
	OperationRead          Operation = "read"
	OperationCreate        Operation = "create"
	OperationUpdate        Operation = "update"
	OperationDelete        Operation = "delete"
	OperationExecute       Operation = "execute"
	OperationOrderChildren Operation = "order-children"
)

// AllOperations returns every operation in declaration order.
func AllOperations() []Operation {
	return []Operation{
		OperationRead,
		OperationCreate,
		OperationUpdate,
		OperationDelete,
		OperationExecute,
		OperationOrderChildren,
	}
}

// ParseOperation converts a wire name into an Operation.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OperationRead, OperationCreate, OperationUpdate,
		OperationDelete, OperationExecute, OperationOrderChildren:
		return Operation(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// HasValueVariant reports whether the operation has a per-value form
// (canXxxValue). Only read, create, update and delete do.
func (o Operation) HasValueVariant() bool {
	switch o {
	case OperationRead, OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}
