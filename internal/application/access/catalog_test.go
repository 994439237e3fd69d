package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper/internal/domain/access"
	apperrors "gatekeeper/internal/shared/errors"
)

func TestCatalog_RegisterPermission(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	perm, err := env.catalog.RegisterPermission(ctx, "server.view", "server", "view a server")
	require.NoError(t, err)
	assert.NotZero(t, perm.ID())
	assert.Equal(t, "server.view", perm.Code())

	_, err = env.catalog.RegisterPermission(ctx, "server.view", "server", "another description")
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateCodeError(err))
}

func TestCatalog_RegisterPermissionValidatesCode(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		code   string
		module string
	}{
		{"no namespace", "view", "server"},
		{"wildcard in code", "server.*", "server"},
		{"module mismatch", "server.view", "billing"},
		{"empty code", "", "server"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.catalog.RegisterPermission(ctx, tc.code, tc.module, "")
			assert.Error(t, err)
		})
	}
}

func TestCatalog_RegisterRole(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	system, err := env.catalog.RegisterRole(ctx, "auditor", access.ScopeOrg, nil)
	require.NoError(t, err)
	assert.True(t, system.IsSystem())

	// Same name+scope for the same tenant is a duplicate.
	_, err = env.catalog.RegisterRole(ctx, "auditor", access.ScopeOrg, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateRoleError(err))

	// An org may shadow the system role with its own definition.
	orgID := uint(3)
	override, err := env.catalog.RegisterRole(ctx, "auditor", access.ScopeOrg, &orgID)
	require.NoError(t, err)
	assert.False(t, override.IsSystem())

	_, err = env.catalog.RegisterRole(ctx, "auditor", access.ScopeOrg, &orgID)
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateRoleError(err))

	// Same name at a different scope is a distinct role.
	_, err = env.catalog.RegisterRole(ctx, "auditor", access.ScopeTeam, nil)
	assert.NoError(t, err)
}

func TestCatalog_ResolveRolePrecedence(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	system, err := env.catalog.RegisterRole(ctx, "auditor", access.ScopeOrg, nil)
	require.NoError(t, err)
	orgID := uint(3)
	override, err := env.catalog.RegisterRole(ctx, "auditor", access.ScopeOrg, &orgID)
	require.NoError(t, err)

	resolved, err := env.catalog.ResolveRole(ctx, "auditor", access.ScopeOrg, &orgID)
	require.NoError(t, err)
	assert.Equal(t, override.ID(), resolved.ID())

	resolved, err = env.catalog.ResolveRole(ctx, "auditor", access.ScopeOrg, nil)
	require.NoError(t, err)
	assert.Equal(t, system.ID(), resolved.ID())

	// An org with no override falls back to the system role.
	otherOrg := uint(4)
	resolved, err = env.catalog.ResolveRole(ctx, "auditor", access.ScopeOrg, &otherOrg)
	require.NoError(t, err)
	assert.Equal(t, system.ID(), resolved.ID())

	_, err = env.catalog.ResolveRole(ctx, "phantom", access.ScopeOrg, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsRoleNotFoundError(err))
}
