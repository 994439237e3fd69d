package models

import (
	"time"

	"gatekeeper/internal/shared/constants"
)

type RoleGrantModel struct {
	ID           uint `gorm:"primarykey"`
	RoleID       uint `gorm:"not null;uniqueIndex:idx_role_grant"`
	PermissionID uint `gorm:"not null;uniqueIndex:idx_role_grant"`
	CreatedAt    time.Time
}

func (RoleGrantModel) TableName() string {
	return constants.TableRoleGrants
}
