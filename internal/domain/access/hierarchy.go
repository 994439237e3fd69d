package access

import "context"

// ResourceHierarchy resolves the ancestor chain of a resource. It is an
// external collaborator of the resolution engine: the engine never walks
// the hierarchy itself.
type ResourceHierarchy interface {
	// AncestorsOf returns the resource's ancestors ordered nearest-first
	// (a project yields its team, then group, then org). An org has no
	// ancestors. Unknown resources fail with a ResourceNotFound error;
	// the caller must not treat that as "no ancestors".
	AncestorsOf(ctx context.Context, scope Scope, resourceID string) ([]ResourceRef, error)
}
