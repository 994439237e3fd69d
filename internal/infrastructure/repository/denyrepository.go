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

type DenyRepositoryImpl struct {
	db *gorm.DB
}

func NewDenyRepository(gdb *gorm.DB) access.DenyRepository {
	return &DenyRepositoryImpl{db: gdb}
}

func (r *DenyRepositoryImpl) Create(ctx context.Context, deny *access.Deny) error {
	model := &models.DenyModel{
		UserID:         deny.UserID(),
		PermissionCode: deny.PermissionCode(),
		Scope:          string(deny.Scope()),
		ResourceID:     deny.ResourceID(),
		Reason:         deny.Reason(),
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create deny: %w", err)
	}

	return deny.SetID(model.ID)
}

func (r *DenyRepositoryImpl) Find(ctx context.Context, userID uint, permissionCode string, scope access.Scope, resourceID string) (*access.Deny, error) {
	var model models.DenyModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND permission_code = ? AND scope = ? AND resource_id = ?",
			userID, permissionCode, string(scope), resourceID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find deny: %w", err)
	}

	return reconstructDeny(&model)
}

// ListForUserAt matches a ref when the deny's scope equals the ref's scope
// and its resource is either the ref's resource or the wildcard.
func (r *DenyRepositoryImpl) ListForUserAt(ctx context.Context, userID uint, refs []access.ResourceRef) ([]*access.Deny, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)

	matcher := tx.Where("scope = ? AND resource_id IN ?",
		string(refs[0].Scope), []string{refs[0].ResourceID, access.WildcardResource})
	for _, ref := range refs[1:] {
		matcher = matcher.Or("scope = ? AND resource_id IN ?",
			string(ref.Scope), []string{ref.ResourceID, access.WildcardResource})
	}

	var denyModels []*models.DenyModel
	err := tx.Where("user_id = ?", userID).Where(matcher).Find(&denyModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list denies: %w", err)
	}

	denies := make([]*access.Deny, 0, len(denyModels))
	for _, model := range denyModels {
		deny, err := reconstructDeny(model)
		if err != nil {
			return nil, err
		}
		denies = append(denies, deny)
	}

	return denies, nil
}

func (r *DenyRepositoryImpl) Delete(ctx context.Context, userID uint, permissionCode string, scope access.Scope, resourceID string) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND permission_code = ? AND scope = ? AND resource_id = ?",
			userID, permissionCode, string(scope), resourceID).
		Delete(&models.DenyModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete deny: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func reconstructDeny(model *models.DenyModel) (*access.Deny, error) {
	deny, err := access.ReconstructDeny(
		model.ID,
		model.UserID,
		model.PermissionCode,
		access.Scope(model.Scope),
		model.ResourceID,
		model.Reason,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct deny: %w", err)
	}
	return deny, nil
}
