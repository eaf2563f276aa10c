package config

import "time"

// ServerConfig holds the HTTP listener settings for cmd/engine.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// PublicBaseURL is the externally reachable origin (scheme+host) this
	// instance is served at, used to build the per-tenant webhook URLs
	// returned from tenant creation (§4.9). No trailing slash.
	PublicBaseURL string `yaml:"public_base_url"`
}

// DefaultServerConfig returns the built-in HTTP listener defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:            ":8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		PublicBaseURL:   "http://localhost:8080",
	}
}

// DatabaseConfig holds the warehouse Postgres connection settings.
type DatabaseConfig struct {
	DSNEnv          string `yaml:"dsn_env"` // env var holding the full DSN; never written to YAML directly
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DefaultDatabaseConfig returns the built-in database pool defaults.
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		DSNEnv:          "DATABASE_URL",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// RedisConfig holds the optional durable cache-backend settings. When
// Enabled is false the engine falls back to an in-process store
// (pkg/cache.NewInMemoryStore) and a restart loses dedup/push-channel state.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	AddrEnv string `yaml:"addr_env"`
}

// DefaultRedisConfig returns the built-in Redis defaults (disabled).
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled: false,
		AddrEnv: "REDIS_ADDR",
	}
}

// AuthConfig holds the names of the environment variables carrying the
// secrets the API surface checks (§5): the admin key for management
// endpoints and tenant webhook secrets are looked up per-tenant from the
// warehouse, not from YAML, but the admin key is a single system-wide
// secret.
type AuthConfig struct {
	AdminKeyEnv string `yaml:"admin_key_env"`
}

// DefaultAuthConfig returns the built-in auth defaults.
func DefaultAuthConfig() *AuthConfig {
	return &AuthConfig{AdminKeyEnv: "ENGINE_ADMIN_KEY"}
}

// SlackConfig holds resolved Slack alerting configuration.
type SlackConfig struct {
	Enabled      bool   `yaml:"enabled"`
	WebhookEnv   string `yaml:"webhook_env"`
	Channel      string `yaml:"channel,omitempty"`
	MinSeverity  string `yaml:"min_severity,omitempty"`
}

// DefaultSlackConfig returns the built-in Slack defaults (disabled).
func DefaultSlackConfig() *SlackConfig {
	return &SlackConfig{
		Enabled:     false,
		WebhookEnv:  "SLACK_WEBHOOK_URL",
		MinSeverity: "medium",
	}
}
