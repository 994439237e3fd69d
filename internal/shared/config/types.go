package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AccessConfig controls permission resolution behavior.
type AccessConfig struct {
	// Cascade enables ancestor-scope assignments to take effect at
	// descendant resources (an org-level grant covers its projects).
	Cascade bool `mapstructure:"cascade"`
	// DecisionTTLSeconds bounds how long a cached decision may outlive a
	// concurrent write that raced the invalidation pass.
	DecisionTTLSeconds int `mapstructure:"decision_ttl_seconds"`
	// HierarchyTimeoutMS caps each ancestor lookup.
	HierarchyTimeoutMS int `mapstructure:"hierarchy_timeout_ms"`
	// DegradedPermissive, when set, lets a timed-out hierarchy lookup fall
	// back to "no ancestors known" instead of failing the query closed.
	DegradedPermissive bool `mapstructure:"degraded_permissive"`
	// SeedPolicyPath points at the version-controlled access policy file.
	SeedPolicyPath string `mapstructure:"seed_policy_path"`
}

func (a *AccessConfig) DecisionTTL() time.Duration {
	if a.DecisionTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.DecisionTTLSeconds) * time.Second
}

func (a *AccessConfig) HierarchyTimeout() time.Duration {
	if a.HierarchyTimeoutMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(a.HierarchyTimeoutMS) * time.Millisecond
}
