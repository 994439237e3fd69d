package models

import (
	"time"

	"gatekeeper/internal/shared/constants"
)

// RoleModel rows with org_id 0 are system roles. Zero is stored instead of
// NULL because NULL values do not collide under the composite unique index,
// which would let two identical system roles coexist.
type RoleModel struct {
	ID        uint   `gorm:"primarykey"`
	OrgID     uint   `gorm:"uniqueIndex:idx_role_name_scope_org;not null;default:0"`
	Name      string `gorm:"uniqueIndex:idx_role_name_scope_org;not null;size:50"`
	Scope     string `gorm:"uniqueIndex:idx_role_name_scope_org;not null;size:20"`
	IsSystem  bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RoleModel) TableName() string {
	return constants.TableRoles
}
