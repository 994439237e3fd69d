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

type AssignmentRepositoryImpl struct {
	db *gorm.DB
}

func NewAssignmentRepository(gdb *gorm.DB) access.AssignmentRepository {
	return &AssignmentRepositoryImpl{db: gdb}
}

func (r *AssignmentRepositoryImpl) Create(ctx context.Context, assignment *access.Assignment) error {
	model := &models.AssignmentModel{
		UserID:     assignment.UserID(),
		RoleID:     assignment.RoleID(),
		Scope:      string(assignment.Scope()),
		ResourceID: assignment.ResourceID(),
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return assignment.SetID(model.ID)
}

func (r *AssignmentRepositoryImpl) Find(ctx context.Context, userID, roleID uint, scope access.Scope, resourceID string) (*access.Assignment, error) {
	var model models.AssignmentModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND role_id = ? AND scope = ? AND resource_id = ?",
			userID, roleID, string(scope), resourceID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	return reconstructAssignment(&model)
}

func (r *AssignmentRepositoryImpl) ListForUserAt(ctx context.Context, userID uint, refs []access.ResourceRef) ([]*access.Assignment, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)

	matcher := tx.Where("scope = ? AND resource_id = ?", string(refs[0].Scope), refs[0].ResourceID)
	for _, ref := range refs[1:] {
		matcher = matcher.Or("scope = ? AND resource_id = ?", string(ref.Scope), ref.ResourceID)
	}

	var assignmentModels []*models.AssignmentModel
	err := tx.Where("user_id = ?", userID).Where(matcher).Find(&assignmentModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	assignments := make([]*access.Assignment, 0, len(assignmentModels))
	for _, model := range assignmentModels {
		assignment, err := reconstructAssignment(model)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	return assignments, nil
}

func (r *AssignmentRepositoryImpl) DeleteMatching(ctx context.Context, userID uint, roleIDs []uint, scope access.Scope, resourceID string) (int64, error) {
	if len(roleIDs) == 0 {
		return 0, nil
	}

	result := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND role_id IN ? AND scope = ? AND resource_id = ?",
			userID, roleIDs, string(scope), resourceID).
		Delete(&models.AssignmentModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete assignments: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func reconstructAssignment(model *models.AssignmentModel) (*access.Assignment, error) {
	assignment, err := access.ReconstructAssignment(
		model.ID,
		model.UserID,
		model.RoleID,
		access.Scope(model.Scope),
		model.ResourceID,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct assignment: %w", err)
	}
	return assignment, nil
}
