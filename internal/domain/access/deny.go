package access

import (
	"fmt"
	"time"
)

// Deny is an explicit per-user negative override of a permission code at a
// scope and resource. A deny always outranks any allow derived from role
// assignments. The resource may be the wildcard "*", denying across all
// resources at that scope; the code may carry a module prefix ("project.*")
// or be the universal "*".
type Deny struct {
	id             uint
	userID         uint
	permissionCode string
	scope          Scope
	resourceID     string
	reason         string
	createdAt      time.Time
}

func NewDeny(userID uint, permissionCode string, scope Scope, resourceID, reason string) (*Deny, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if permissionCode == "" {
		return nil, fmt.Errorf("permission code is required")
	}
	if _, err := ParseGrantExpr(permissionCode); err != nil {
		return nil, fmt.Errorf("invalid deny code: %w", err)
	}
	if !scope.Valid() {
		return nil, fmt.Errorf("invalid deny scope %q", scope)
	}
	if resourceID == "" {
		return nil, fmt.Errorf("resource ID is required (use %q for all resources)", WildcardResource)
	}

	return &Deny{
		userID:         userID,
		permissionCode: permissionCode,
		scope:          scope,
		resourceID:     resourceID,
		reason:         reason,
		createdAt:      time.Now(),
	}, nil
}

func ReconstructDeny(id, userID uint, permissionCode string, scope Scope, resourceID, reason string, createdAt time.Time) (*Deny, error) {
	if id == 0 {
		return nil, fmt.Errorf("deny ID cannot be zero")
	}

	return &Deny{
		id:             id,
		userID:         userID,
		permissionCode: permissionCode,
		scope:          scope,
		resourceID:     resourceID,
		reason:         reason,
		createdAt:      createdAt,
	}, nil
}

func (d *Deny) ID() uint {
	return d.id
}

func (d *Deny) SetID(id uint) error {
	if d.id != 0 {
		return fmt.Errorf("deny ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("deny ID cannot be zero")
	}
	d.id = id
	return nil
}

func (d *Deny) UserID() uint {
	return d.userID
}

func (d *Deny) PermissionCode() string {
	return d.permissionCode
}

func (d *Deny) Scope() Scope {
	return d.scope
}

func (d *Deny) ResourceID() string {
	return d.resourceID
}

func (d *Deny) Reason() string {
	return d.reason
}

func (d *Deny) CreatedAt() time.Time {
	return d.createdAt
}
