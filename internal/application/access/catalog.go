package access

import (
	"context"
	"fmt"

	"gatekeeper/internal/domain/access"
	"gatekeeper/internal/shared/errors"
	"gatekeeper/internal/shared/logger"
)

// Catalog is the administrative path over the permission and role catalogs.
// Rows it creates are read-only reference data for the resolution engine.
type Catalog struct {
	permissionRepo access.PermissionRepository
	roleRepo       access.RoleRepository
	logger         logger.Interface
}

func NewCatalog(
	permissionRepo access.PermissionRepository,
	roleRepo access.RoleRepository,
	log logger.Interface,
) *Catalog {
	return &Catalog{
		permissionRepo: permissionRepo,
		roleRepo:       roleRepo,
		logger:         log,
	}
}

// RegisterPermission inserts a permission, failing with a DuplicateCode
// error when the code is already registered.
func (c *Catalog) RegisterPermission(ctx context.Context, code, module, description string) (*access.Permission, error) {
	existing, err := c.permissionRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewDuplicateCodeError(code)
	}

	permission, err := access.NewPermission(code, module, description)
	if err != nil {
		return nil, fmt.Errorf("invalid permission: %w", err)
	}

	if err := c.permissionRepo.Create(ctx, permission); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewDuplicateCodeError(code)
		}
		return nil, err
	}

	return permission, nil
}

// RegisterRole inserts a role, failing with a DuplicateRole error when a
// role with the same (name, scope, org) already exists.
func (c *Catalog) RegisterRole(ctx context.Context, name string, scope access.Scope, orgID *uint) (*access.Role, error) {
	existing, err := c.roleRepo.ResolveByName(ctx, name, scope, orgID)
	if err != nil {
		return nil, err
	}
	if existing != nil && sameOrg(existing.OrgID(), orgID) {
		return nil, errors.NewDuplicateRoleError(name, string(scope))
	}

	role, err := access.NewRole(name, scope, orgID)
	if err != nil {
		return nil, fmt.Errorf("invalid role: %w", err)
	}

	if err := c.roleRepo.Create(ctx, role); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewDuplicateRoleError(name, string(scope))
		}
		return nil, err
	}

	return role, nil
}

// ResolveRole applies the tenant-override precedence rule: the org-scoped
// role wins over the system role of the same name and scope. Fails with a
// RoleNotFound error when neither exists.
func (c *Catalog) ResolveRole(ctx context.Context, name string, scope access.Scope, orgID *uint) (*access.Role, error) {
	role, err := c.roleRepo.ResolveByName(ctx, name, scope, orgID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.NewRoleNotFoundError(name, string(scope))
	}
	return role, nil
}

func sameOrg(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
