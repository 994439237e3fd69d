package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	accessApp "gatekeeper/internal/application/access"
	domain "gatekeeper/internal/domain/access"
	"gatekeeper/internal/infrastructure/cache"
	"gatekeeper/internal/infrastructure/config"
	"gatekeeper/internal/infrastructure/hierarchy"
	"gatekeeper/internal/infrastructure/persistence/models"
	"gatekeeper/internal/infrastructure/repository"
	"gatekeeper/internal/shared/db"
	"gatekeeper/internal/shared/logger"
)

func setupRouter(t *testing.T) *Router {
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.PermissionModel{},
		&models.RoleModel{},
		&models.RoleGrantModel{},
		&models.AssignmentModel{},
		&models.DenyModel{},
		&models.OrganizationModel{},
		&models.ResourceGroupModel{},
		&models.TeamModel{},
		&models.ProjectModel{},
	)
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.NewLogger()

	permissionRepo := repository.NewPermissionRepository(gdb)
	roleRepo := repository.NewRoleRepository(gdb)
	assignmentRepo := repository.NewAssignmentRepository(gdb)
	denyRepo := repository.NewDenyRepository(gdb)
	txManager := db.NewTransactionManager(gdb)
	decisionCache := cache.NewRedisDecisionCache(client, 5*time.Minute, log)
	resourceHierarchy := hierarchy.NewGormHierarchy(gdb)

	service := accessApp.NewService(roleRepo, assignmentRepo, denyRepo, decisionCache, txManager, log)
	resolver := accessApp.NewResolver(roleRepo, assignmentRepo, denyRepo, resourceHierarchy, decisionCache,
		accessApp.ResolverConfig{Cascade: true, HierarchyTimeout: time.Second}, log)
	catalog := accessApp.NewCatalog(permissionRepo, roleRepo, log)
	seeder := accessApp.NewSeeder(permissionRepo, roleRepo, txManager, log)

	ctx := context.Background()
	require.NoError(t, seeder.Seed(ctx, &accessApp.SeedPolicy{
		Permissions: []accessApp.SeedPermission{
			{Code: "access.manage", Module: "access", Description: "manage assignments"},
			{Code: "project.view", Module: "project", Description: "view a project"},
			{Code: "project.update", Module: "project", Description: "update a project"},
		},
		Roles: map[string]accessApp.SeedRole{
			"org_admin":      {Scope: "org", Permissions: []string{"access.manage"}},
			"project_editor": {Scope: "project", Permissions: []string{"project.*"}},
		},
	}))

	// org 1 > group 1 > team 1 > project 1
	require.NoError(t, gdb.Create(&models.OrganizationModel{ID: 1, Name: "acme"}).Error)
	require.NoError(t, gdb.Create(&models.ResourceGroupModel{ID: 1, OrgID: 1, Name: "core"}).Error)
	require.NoError(t, gdb.Create(&models.TeamModel{ID: 1, GroupID: 1, Name: "platform"}).Error)
	require.NoError(t, gdb.Create(&models.ProjectModel{ID: 1, TeamID: 1, Name: "gateway"}).Error)

	// user 10 administers org 1
	_, err = service.AssignRole(ctx, 10, "org_admin", domain.ScopeOrg, "1", nil)
	require.NoError(t, err)

	router := NewRouter(service, resolver, catalog, &config.Config{}, log)
	router.SetupRoutes()

	return router
}

func doJSON(t *testing.T, router *Router, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	router.GetEngine().ServeHTTP(w, req)
	return w
}

func TestRouter_AssignRoleRequiresIdentity(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/orgs/1/assignments", "", gin.H{
		"user_id": 11, "role": "project_editor", "scope": "project", "resource_id": "1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AssignRoleRequiresManagePermission(t *testing.T) {
	router := setupRouter(t)

	// user 99 holds nothing at org 1
	w := doJSON(t, router, http.MethodPost, "/api/v1/orgs/1/assignments", "99", gin.H{
		"user_id": 11, "role": "project_editor", "scope": "project", "resource_id": "1",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_AssignAndQueryPermissions(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/orgs/1/assignments", "10", gin.H{
		"user_id": 11, "role": "project_editor", "scope": "project", "resource_id": "1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet,
		"/api/v1/users/11/permissions?scope=project&resource_id=1", "10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Permissions []string `json:"permissions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"project.view", "project.update"}, resp.Data.Permissions)

	w = doJSON(t, router, http.MethodGet,
		"/api/v1/users/11/permissions/check?code=project.update&scope=project&resource_id=1", "10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var check struct {
		Data struct {
			Allowed bool `json:"allowed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &check))
	assert.True(t, check.Data.Allowed)
}

func TestRouter_DenyEndpoints(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/orgs/1/assignments", "10", gin.H{
		"user_id": 11, "role": "project_editor", "scope": "project", "resource_id": "1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/orgs/1/denies", "10", gin.H{
		"user_id": 11, "permission_code": "project.update", "scope": "project", "resource_id": "1",
		"reason": "under review",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet,
		"/api/v1/users/11/permissions/check?code=project.update&scope=project&resource_id=1", "10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var check struct {
		Data struct {
			Allowed bool `json:"allowed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &check))
	assert.False(t, check.Data.Allowed)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/orgs/1/denies", "10", gin.H{
		"user_id": 11, "permission_code": "project.update", "scope": "project", "resource_id": "1",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CatalogEndpoints(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/catalog/permissions", "10", gin.H{
		"code": "billing.view", "module": "billing", "description": "view invoices",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// duplicate code is rejected
	w = doJSON(t, router, http.MethodPost, "/api/v1/catalog/permissions", "10", gin.H{
		"code": "billing.view", "module": "billing",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/catalog/roles", "10", gin.H{
		"name": "billing_admin", "scope": "org",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet,
		"/api/v1/catalog/roles/resolve?name=billing_admin&scope=org", "10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Health(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
