package access

import (
	"fmt"
	"time"
)

// Assignment links a user to a role at a concrete scope and resource.
// The natural key (user, role, scope, resource) is unique; the Assignment
// Service is the only writer.
type Assignment struct {
	id         uint
	userID     uint
	roleID     uint
	scope      Scope
	resourceID string
	createdAt  time.Time
}

func NewAssignment(userID, roleID uint, scope Scope, resourceID string) (*Assignment, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if roleID == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}
	if !scope.Valid() {
		return nil, fmt.Errorf("invalid assignment scope %q", scope)
	}
	if resourceID == "" {
		return nil, fmt.Errorf("resource ID is required")
	}
	if resourceID == WildcardResource {
		return nil, fmt.Errorf("assignments cannot target the wildcard resource")
	}

	return &Assignment{
		userID:     userID,
		roleID:     roleID,
		scope:      scope,
		resourceID: resourceID,
		createdAt:  time.Now(),
	}, nil
}

func ReconstructAssignment(id, userID, roleID uint, scope Scope, resourceID string, createdAt time.Time) (*Assignment, error) {
	if id == 0 {
		return nil, fmt.Errorf("assignment ID cannot be zero")
	}

	return &Assignment{
		id:         id,
		userID:     userID,
		roleID:     roleID,
		scope:      scope,
		resourceID: resourceID,
		createdAt:  createdAt,
	}, nil
}

func (a *Assignment) ID() uint {
	return a.id
}

func (a *Assignment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("assignment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("assignment ID cannot be zero")
	}
	a.id = id
	return nil
}

func (a *Assignment) UserID() uint {
	return a.userID
}

func (a *Assignment) RoleID() uint {
	return a.roleID
}

func (a *Assignment) Scope() Scope {
	return a.scope
}

func (a *Assignment) ResourceID() string {
	return a.resourceID
}

func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}
