package models

import (
	"time"

	"gatekeeper/internal/shared/constants"
)

type PermissionModel struct {
	ID          uint   `gorm:"primarykey"`
	Code        string `gorm:"uniqueIndex;not null;size:100"`
	Module      string `gorm:"index;not null;size:50"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PermissionModel) TableName() string {
	return constants.TablePermissions
}
