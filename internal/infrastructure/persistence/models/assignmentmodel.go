package models

import (
	"time"

	"gatekeeper/internal/shared/constants"
)

// AssignmentModel's natural-key index backs the idempotent assign path: a
// racing duplicate insert surfaces as a uniqueness violation, which the
// service treats as "already assigned".
type AssignmentModel struct {
	ID         uint   `gorm:"primarykey"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_assignment_natural;index:idx_assignment_user"`
	RoleID     uint   `gorm:"not null;uniqueIndex:idx_assignment_natural"`
	Scope      string `gorm:"not null;size:20;uniqueIndex:idx_assignment_natural"`
	ResourceID string `gorm:"not null;size:100;uniqueIndex:idx_assignment_natural"`
	CreatedAt  time.Time
}

func (AssignmentModel) TableName() string {
	return constants.TableAssignments
}
