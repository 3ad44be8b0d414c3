// Package gate implements the resource access decision engine: it combines
// the verdicts of independently registered, pluggable access gates into a
// single authorization decision for an operation on a hierarchical resource
// tree.
//
// Gates are registered with a path pattern, an operation set, an optional set
// of final operations, a required context and an integer ranking. For each
// decision the engine snapshots the applicable registrations, orders them by
// ranking (highest first) and folds their verdicts: a grant wins immediately,
// a deny wins only if the operation is final for that gate or no later gate
// grants, and a gate without an opinion is skipped.
package gate

import "context"

// Resource is the minimal view of a node in the resource tree that gates
// decide on. The tree implementation itself lives outside this package.
type Resource interface {
	// Path returns the absolute path of the resource.
	Path() string
}

// Resolver materializes resources from paths. The engine never calls it; it
// is passed through opaquely to gates that need to look at more of the tree.
type Resolver interface {
	Resolve(ctx context.Context, path string) (Resource, error)
}

// Gate is the contract an access checker implements. Decision methods return
// a Result and must not be relied on to be well behaved: the engine recovers
// panics and bounds call time, downgrading either to CantDecide.
type Gate interface {
	CanRead(ctx context.Context, res Resource) Result
	// CanCreate takes a path instead of a resource since the resource does
	// not exist yet.
	CanCreate(ctx context.Context, path string, resolver Resolver) Result
	CanUpdate(ctx context.Context, res Resource) Result
	CanDelete(ctx context.Context, res Resource) Result
	CanExecute(ctx context.Context, res Resource) Result

	CanReadValue(ctx context.Context, res Resource, name string) Result
	CanCreateValue(ctx context.Context, res Resource, name string) Result
	CanUpdateValue(ctx context.Context, res Resource, name string) Result
	CanDeleteValue(ctx context.Context, res Resource, name string) Result

	// TransformQuery may rewrite a query to narrow its result set for the
	// current credentials. Returning an error aborts the whole transform
	// chain. The rewrite is advisory: every result is still checked on read.
	TransformQuery(ctx context.Context, query, language string, resolver Resolver) (string, error)
}

// ChildOrderGate is an optional capability for gates that decide on
// reordering a resource's children. Gates that do not implement it answer
// CantDecide for order-children; the fallback is bound at registration time.
type ChildOrderGate interface {
	CanOrderChildren(ctx context.Context, res Resource) Result
}

// pathResource is a Resource backed by nothing but its path.
type pathResource struct {
	path string
}

func (r pathResource) Path() string { return r.path }

// NewResource returns a Resource that carries only a path. Callers that have
// no materialized resource at hand use this to drive path-based decisions.
func NewResource(path string) Resource {
	return pathResource{path: path}
}
