package access

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gatekeeper/internal/domain/access"
	"gatekeeper/internal/infrastructure/cache"
	"gatekeeper/internal/infrastructure/persistence/models"
	"gatekeeper/internal/infrastructure/repository"
	"gatekeeper/internal/shared/db"
	apperrors "gatekeeper/internal/shared/errors"
	"gatekeeper/internal/shared/logger"
)

// nopLogger is a no-op logger for testing.
type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)                   {}
func (l *nopLogger) Info(msg string, args ...any)                    {}
func (l *nopLogger) Warn(msg string, args ...any)                    {}
func (l *nopLogger) Error(msg string, args ...any)                   {}
func (l *nopLogger) With(args ...any) logger.Interface               { return l }
func (l *nopLogger) Named(name string) logger.Interface              { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

// fakeHierarchy serves ancestor chains from a map and can simulate
// slow or failing lookups.
type fakeHierarchy struct {
	ancestors map[access.ResourceRef][]access.ResourceRef
	delay     time.Duration
}

func newFakeHierarchy() *fakeHierarchy {
	return &fakeHierarchy{ancestors: make(map[access.ResourceRef][]access.ResourceRef)}
}

func (f *fakeHierarchy) add(scope access.Scope, resourceID string, ancestors ...access.ResourceRef) {
	f.ancestors[access.ResourceRef{Scope: scope, ResourceID: resourceID}] = ancestors
}

func (f *fakeHierarchy) AncestorsOf(ctx context.Context, scope access.Scope, resourceID string) ([]access.ResourceRef, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	refs, ok := f.ancestors[access.ResourceRef{Scope: scope, ResourceID: resourceID}]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError(string(scope), resourceID)
	}
	return refs, nil
}

// testEnv wires the full stack against sqlite and miniredis.
type testEnv struct {
	service     *Service
	resolver    *Resolver
	seeder      *Seeder
	catalog     *Catalog
	roles       access.RoleRepository
	perms       access.PermissionRepository
	assignments access.AssignmentRepository
	denies      access.DenyRepository
	tx          *db.TransactionManager
	hierarchy   *fakeHierarchy
	redis       *miniredis.Miniredis
	cacheStore  access.DecisionCache
}

func setupEnv(t *testing.T) *testEnv {
	return setupEnvWithConfig(t, ResolverConfig{Cascade: true, HierarchyTimeout: time.Second})
}

func setupEnvWithConfig(t *testing.T, cfg ResolverConfig) *testEnv {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.PermissionModel{},
		&models.RoleModel{},
		&models.RoleGrantModel{},
		&models.AssignmentModel{},
		&models.DenyModel{},
	)
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := newNopLogger()
	decisionCache := cache.NewRedisDecisionCache(client, 5*time.Minute, log)

	permRepo := repository.NewPermissionRepository(gdb)
	roleRepo := repository.NewRoleRepository(gdb)
	assignmentRepo := repository.NewAssignmentRepository(gdb)
	denyRepo := repository.NewDenyRepository(gdb)
	txManager := db.NewTransactionManager(gdb)
	hierarchy := newFakeHierarchy()

	return &testEnv{
		service:     NewService(roleRepo, assignmentRepo, denyRepo, decisionCache, txManager, log),
		resolver:    NewResolver(roleRepo, assignmentRepo, denyRepo, hierarchy, decisionCache, cfg, log),
		seeder:      NewSeeder(permRepo, roleRepo, txManager, log),
		catalog:     NewCatalog(permRepo, roleRepo, log),
		roles:       roleRepo,
		perms:       permRepo,
		assignments: assignmentRepo,
		denies:      denyRepo,
		tx:          txManager,
		hierarchy:   hierarchy,
		redis:       mr,
		cacheStore:  decisionCache,
	}
}

// seedBasicPolicy installs a small catalog with editor/viewer/owner roles.
func (e *testEnv) seedBasicPolicy(t *testing.T) {
	policy := &SeedPolicy{
		Permissions: []SeedPermission{
			{Code: "project.read", Module: "project", Description: "read a project"},
			{Code: "project.update", Module: "project", Description: "update a project"},
			{Code: "project.delete", Module: "project", Description: "delete a project"},
			{Code: "org.admin", Module: "org", Description: "administer an org"},
		},
		Roles: map[string]SeedRole{
			"viewer": {Scope: "project", Permissions: []string{"project.read"}},
			"editor": {Scope: "project", Permissions: []string{"project.*"}},
			"admin":  {Scope: "org", Permissions: []string{"*"}},
			"owner":  {Scope: "org", Permissions: []string{"*"}},
		},
	}
	require.NoError(t, e.seeder.Seed(context.Background(), policy))
}
