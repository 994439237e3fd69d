package models

import (
	"time"

	"gatekeeper/internal/shared/constants"
)

// The hierarchy tables hold the org → group → team → project containment
// chain consumed by the resource-hierarchy lookup.

type OrganizationModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"not null;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OrganizationModel) TableName() string {
	return constants.TableOrganizations
}

type ResourceGroupModel struct {
	ID        uint   `gorm:"primarykey"`
	OrgID     uint   `gorm:"not null;index"`
	Name      string `gorm:"not null;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ResourceGroupModel) TableName() string {
	return constants.TableResourceGroups
}

type TeamModel struct {
	ID        uint   `gorm:"primarykey"`
	GroupID   uint   `gorm:"not null;index"`
	Name      string `gorm:"not null;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TeamModel) TableName() string {
	return constants.TableTeams
}

type ProjectModel struct {
	ID        uint   `gorm:"primarykey"`
	TeamID    uint   `gorm:"not null;index"`
	Name      string `gorm:"not null;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProjectModel) TableName() string {
	return constants.TableProjects
}
