package gate

import "fmt"

// Context scopes where a gate applies: the whole resource tree, or only
// providers that opt in to access security checks.
type Context string

const (
	ContextApplication Context = "application"
	ContextProvider    Context = "provider"
)

// ParseContext converts a wire name into a Context. A registration carrying
// anything else is invalid and must never enter the registry.
func ParseContext(s string) (Context, error) {
	switch Context(s) {
	case ContextApplication, ContextProvider:
		return Context(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidContext, s)
}
