package access

import (
	"fmt"
	"time"
)

// Role is a named bundle of permissions bound to exactly one scope level.
// A role with no owning organization is a system role, available as a
// default to every tenant; an org-scoped role with the same name and scope
// overrides the system one for that org.
type Role struct {
	id        uint
	orgID     *uint
	name      string
	scope     Scope
	isSystem  bool
	createdAt time.Time
	updatedAt time.Time
}

func NewRole(name string, scope Scope, orgID *uint) (*Role, error) {
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if len(name) > 50 {
		return nil, fmt.Errorf("role name too long (max 50 characters)")
	}
	if !scope.Valid() {
		return nil, fmt.Errorf("invalid role scope %q", scope)
	}
	if orgID != nil && *orgID == 0 {
		return nil, fmt.Errorf("org ID cannot be zero")
	}

	now := time.Now()
	return &Role{
		orgID:     orgID,
		name:      name,
		scope:     scope,
		isSystem:  orgID == nil,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructRole(id uint, orgID *uint, name string, scope Scope, isSystem bool, createdAt, updatedAt time.Time) (*Role, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}

	return &Role{
		id:        id,
		orgID:     orgID,
		name:      name,
		scope:     scope,
		isSystem:  isSystem,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (r *Role) ID() uint {
	return r.id
}

func (r *Role) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	r.id = id
	return nil
}

// OrgID returns the owning organization, or nil for a system role.
func (r *Role) OrgID() *uint {
	return r.orgID
}

func (r *Role) Name() string {
	return r.name
}

func (r *Role) Scope() Scope {
	return r.scope
}

func (r *Role) IsSystem() bool {
	return r.isSystem
}

func (r *Role) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Role) UpdatedAt() time.Time {
	return r.updatedAt
}
