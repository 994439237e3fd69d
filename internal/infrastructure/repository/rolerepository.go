package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gatekeeper/internal/domain/access"
	"gatekeeper/internal/infrastructure/persistence/models"
	"gatekeeper/internal/shared/constants"
	"gatekeeper/internal/shared/db"
)

type RoleRepositoryImpl struct {
	db *gorm.DB
}

func NewRoleRepository(gdb *gorm.DB) access.RoleRepository {
	return &RoleRepositoryImpl{db: gdb}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *access.Role) error {
	model := &models.RoleModel{
		OrgID:    orgKey(role.OrgID()),
		Name:     role.Name(),
		Scope:    string(role.Scope()),
		IsSystem: role.IsSystem(),
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}

	return role.SetID(model.ID)
}

func (r *RoleRepositoryImpl) GetByID(ctx context.Context, id uint) (*access.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return reconstructRole(&model)
}

// ResolveByName prefers the org-scoped override over the system default.
func (r *RoleRepositoryImpl) ResolveByName(ctx context.Context, name string, scope access.Scope, orgID *uint) (*access.Role, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	if orgID != nil {
		var model models.RoleModel
		err := tx.Where("name = ? AND scope = ? AND org_id = ?", name, string(scope), *orgID).
			First(&model).Error
		if err == nil {
			return reconstructRole(&model)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to resolve org role: %w", err)
		}
	}

	var model models.RoleModel
	err := tx.Where("name = ? AND scope = ? AND org_id = 0", name, string(scope)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve system role: %w", err)
	}

	return reconstructRole(&model)
}

func (r *RoleRepositoryImpl) FindByNameScope(ctx context.Context, name string, scope access.Scope) ([]*access.Role, error) {
	var roleModels []*models.RoleModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("name = ? AND scope = ?", name, string(scope)).
		Find(&roleModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find roles by name and scope: %w", err)
	}

	roles := make([]*access.Role, 0, len(roleModels))
	for _, model := range roleModels {
		role, err := reconstructRole(model)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	return roles, nil
}

// ReplaceGrants deletes the role's grant rows and re-inserts the given set.
// Callers run it inside a transaction so a partial replace never persists.
func (r *RoleRepositoryImpl) ReplaceGrants(ctx context.Context, roleID uint, permissionIDs []uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("role_id = ?", roleID).Delete(&models.RoleGrantModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear role grants: %w", err)
	}

	if len(permissionIDs) == 0 {
		return nil
	}

	grants := make([]models.RoleGrantModel, 0, len(permissionIDs))
	for _, permissionID := range permissionIDs {
		grants = append(grants, models.RoleGrantModel{
			RoleID:       roleID,
			PermissionID: permissionID,
		})
	}

	if err := tx.Create(&grants).Error; err != nil {
		return fmt.Errorf("failed to insert role grants: %w", err)
	}

	return nil
}

func (r *RoleRepositoryImpl) GrantCodes(ctx context.Context, roleIDs []uint) ([]string, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}

	var codes []string
	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableRoleGrants).
		Select("DISTINCT "+constants.TablePermissions+".code").
		Joins(fmt.Sprintf("JOIN %s ON %s.id = %s.permission_id",
			constants.TablePermissions, constants.TablePermissions, constants.TableRoleGrants)).
		Where(constants.TableRoleGrants+".role_id IN ?", roleIDs).
		Scan(&codes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load grant codes: %w", err)
	}

	return codes, nil
}

func reconstructRole(model *models.RoleModel) (*access.Role, error) {
	role, err := access.ReconstructRole(
		model.ID,
		orgFromKey(model.OrgID),
		model.Name,
		access.Scope(model.Scope),
		model.IsSystem,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct role: %w", err)
	}
	return role, nil
}

// System roles are stored with org_id 0 rather than NULL so the composite
// unique index enforces their uniqueness too.
func orgKey(orgID *uint) uint {
	if orgID == nil {
		return 0
	}
	return *orgID
}

func orgFromKey(key uint) *uint {
	if key == 0 {
		return nil
	}
	return &key
}
