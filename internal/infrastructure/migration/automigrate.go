package migration

import (
	"gatekeeper/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PermissionModel{},
		&models.RoleModel{},
		&models.RoleGrantModel{},
		&models.AssignmentModel{},
		&models.DenyModel{},
		&models.OrganizationModel{},
		&models.ResourceGroupModel{},
		&models.TeamModel{},
		&models.ProjectModel{},
	}
}
