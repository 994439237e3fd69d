package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	// Database table names
	TablePermissions    = "permissions"
	TableRoles          = "roles"
	TableRoleGrants     = "role_grants"
	TableAssignments    = "role_assignments"
	TableDenies         = "permission_denies"
	TableOrganizations  = "organizations"
	TableResourceGroups = "resource_groups"
	TableTeams          = "teams"
	TableProjects       = "projects"

	// Cache key prefixes
	CacheKeyDecisionPrefix = "access:decision:"
	CacheKeyDecisionIndex  = "access:decision:user:"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
)
