package config

// Config is the umbrella configuration object returned by Initialize and
// threaded through the rest of the engine. Nothing downstream reads YAML
// directly — every tunable the core needs (taxonomy, thresholds, pricing,
// title-parsing tables, system settings) is resolved here once at startup.
type Config struct {
	configDir string

	Taxonomy     *Taxonomy
	Thresholds   *Thresholds
	AIPricing    *AIPricing
	TitleParsing *TitleParsing
	FilterPhrases []string

	Server    *ServerConfig
	Database  *DatabaseConfig
	Redis     *RedisConfig
	Auth      *AuthConfig
	Slack     *SlackConfig
	Sweeper   *SweeperConfig
	Retention *RetentionConfig
}

// Initialize is defined in loader.go.

// ConfigDir returns the directory Initialize loaded YAML from.
func (c *Config) ConfigDir() string {
	return c.configDir
}
