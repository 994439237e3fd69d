package access

import "context"

// PermissionRepository owns the permission catalog. Rows are created at
// seed time and treated as read-only reference data afterwards.
type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error
	GetByCode(ctx context.Context, code string) (*Permission, error)
	List(ctx context.Context) ([]*Permission, error)
}

// RoleRepository owns roles and their grant sets.
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uint) (*Role, error)
	// ResolveByName applies tenant-override precedence: the org-scoped role
	// for orgID wins over the system role of the same name and scope.
	// Returns nil when neither exists.
	ResolveByName(ctx context.Context, name string, scope Scope, orgID *uint) (*Role, error)
	// FindByNameScope returns every role matching name and scope across all
	// orgs, system role included. Used by removal, which targets whatever
	// was stored rather than re-applying override precedence.
	FindByNameScope(ctx context.Context, name string, scope Scope) ([]*Role, error)
	// ReplaceGrants atomically swaps a role's entire grant set.
	ReplaceGrants(ctx context.Context, roleID uint, permissionIDs []uint) error
	// GrantCodes returns the deduplicated permission codes granted to any of
	// the given roles.
	GrantCodes(ctx context.Context, roleIDs []uint) ([]string, error)
}

// AssignmentRepository owns user-role assignment rows.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *Assignment) error
	// Find returns the assignment with the given natural key, or nil.
	Find(ctx context.Context, userID, roleID uint, scope Scope, resourceID string) (*Assignment, error)
	// ListForUserAt returns assignments whose (scope, resource) exactly
	// matches any of the given refs.
	ListForUserAt(ctx context.Context, userID uint, refs []ResourceRef) ([]*Assignment, error)
	// DeleteMatching removes assignments for the user at the scope/resource
	// held through any of the given roles, reporting how many were removed.
	DeleteMatching(ctx context.Context, userID uint, roleIDs []uint, scope Scope, resourceID string) (int64, error)
}

// DenyRepository owns explicit deny rows.
type DenyRepository interface {
	Create(ctx context.Context, deny *Deny) error
	Find(ctx context.Context, userID uint, permissionCode string, scope Scope, resourceID string) (*Deny, error)
	// ListForUserAt returns denies whose scope matches a ref and whose
	// resource equals the ref's resource or the wildcard "*".
	ListForUserAt(ctx context.Context, userID uint, refs []ResourceRef) ([]*Deny, error)
	Delete(ctx context.Context, userID uint, permissionCode string, scope Scope, resourceID string) (int64, error)
}
