package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gatekeeper/internal/domain/access"
	"gatekeeper/internal/infrastructure/persistence/models"
	"gatekeeper/internal/shared/db"
)

type PermissionRepositoryImpl struct {
	db *gorm.DB
}

func NewPermissionRepository(gdb *gorm.DB) access.PermissionRepository {
	return &PermissionRepositoryImpl{db: gdb}
}

func (r *PermissionRepositoryImpl) Create(ctx context.Context, permission *access.Permission) error {
	model := &models.PermissionModel{
		Code:        permission.Code(),
		Module:      permission.Module(),
		Description: permission.Description(),
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create permission: %w", err)
	}

	return permission.SetID(model.ID)
}

func (r *PermissionRepositoryImpl) GetByCode(ctx context.Context, code string) (*access.Permission, error) {
	var model models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission by code: %w", err)
	}

	return reconstructPermission(&model)
}

func (r *PermissionRepositoryImpl) List(ctx context.Context) ([]*access.Permission, error) {
	var permissionModels []*models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Order("code ASC").Find(&permissionModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	permissions := make([]*access.Permission, 0, len(permissionModels))
	for _, model := range permissionModels {
		permission, err := reconstructPermission(model)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, permission)
	}

	return permissions, nil
}

func reconstructPermission(model *models.PermissionModel) (*access.Permission, error) {
	permission, err := access.ReconstructPermission(
		model.ID,
		model.Code,
		model.Module,
		model.Description,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct permission: %w", err)
	}
	return permission, nil
}
