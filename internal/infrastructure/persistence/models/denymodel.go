package models

import (
	"time"

	"gatekeeper/internal/shared/constants"
)

type DenyModel struct {
	ID             uint   `gorm:"primarykey"`
	UserID         uint   `gorm:"not null;uniqueIndex:idx_deny_natural;index:idx_deny_user"`
	PermissionCode string `gorm:"not null;size:100;uniqueIndex:idx_deny_natural"`
	Scope          string `gorm:"not null;size:20;uniqueIndex:idx_deny_natural"`
	ResourceID     string `gorm:"not null;size:100;uniqueIndex:idx_deny_natural"`
	Reason         string `gorm:"type:text"`
	CreatedAt      time.Time
}

func (DenyModel) TableName() string {
	return constants.TableDenies
}
