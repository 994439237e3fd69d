package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gatekeeper/internal/domain/access"
	"gatekeeper/internal/infrastructure/persistence/models"
	apperrors "gatekeeper/internal/shared/errors"
)

func setupHierarchy(t *testing.T) *GormHierarchy {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.OrganizationModel{},
		&models.ResourceGroupModel{},
		&models.TeamModel{},
		&models.ProjectModel{},
	)
	require.NoError(t, err)

	// org 1 → group 1 → team 1 → project 1
	require.NoError(t, gdb.Create(&models.OrganizationModel{ID: 1, Name: "acme"}).Error)
	require.NoError(t, gdb.Create(&models.ResourceGroupModel{ID: 1, OrgID: 1, Name: "platform"}).Error)
	require.NoError(t, gdb.Create(&models.TeamModel{ID: 1, GroupID: 1, Name: "core"}).Error)
	require.NoError(t, gdb.Create(&models.ProjectModel{ID: 1, TeamID: 1, Name: "api"}).Error)

	return NewGormHierarchy(gdb)
}

func TestGormHierarchy_AncestorsOfProject(t *testing.T) {
	h := setupHierarchy(t)

	refs, err := h.AncestorsOf(context.Background(), access.ScopeProject, "1")
	require.NoError(t, err)

	assert.Equal(t, []access.ResourceRef{
		{Scope: access.ScopeTeam, ResourceID: "1"},
		{Scope: access.ScopeGroup, ResourceID: "1"},
		{Scope: access.ScopeOrg, ResourceID: "1"},
	}, refs)
}

func TestGormHierarchy_AncestorsOfOrgIsEmpty(t *testing.T) {
	h := setupHierarchy(t)

	refs, err := h.AncestorsOf(context.Background(), access.ScopeOrg, "1")
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestGormHierarchy_UnknownResourceFails(t *testing.T) {
	h := setupHierarchy(t)

	_, err := h.AncestorsOf(context.Background(), access.ScopeProject, "999")
	require.Error(t, err)
	assert.True(t, apperrors.IsResourceNotFoundError(err))

	_, err = h.AncestorsOf(context.Background(), access.ScopeProject, "not-a-number")
	require.Error(t, err)
	assert.True(t, apperrors.IsResourceNotFoundError(err))
}
