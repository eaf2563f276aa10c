package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EngineYAMLConfig represents the complete engine.yaml file structure: a
// deployment overrides whichever sections it needs and leaves the rest to
// the compiled-in defaults.
type EngineYAMLConfig struct {
	Taxonomy      *Taxonomy       `yaml:"taxonomy"`
	Thresholds    *Thresholds     `yaml:"thresholds"`
	AIPricing     *AIPricing      `yaml:"ai_pricing"`
	TitleParsing  *TitleParsing   `yaml:"title_parsing"`
	FilterPhrases []string        `yaml:"filter_phrases"`
	Server        *ServerConfig   `yaml:"server"`
	Database      *DatabaseConfig `yaml:"database"`
	Redis         *RedisConfig    `yaml:"redis"`
	Auth          *AuthConfig     `yaml:"auth"`
	Slack         *SlackConfig    `yaml:"slack"`
	Sweeper       *SweeperConfig  `yaml:"sweeper"`
	Retention     *RetentionConfig `yaml:"retention"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load engine.yaml from configDir (missing file is not an error —
//     the engine runs on compiled-in defaults alone)
//  2. Expand environment variables
//  3. Parse YAML into structs
//  4. Merge user-defined sections over built-in defaults
//  5. Validate the merged configuration
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("configuration initialized",
		"outcomes", len(cfg.Taxonomy.Outcomes),
		"objections", len(cfg.Taxonomy.Objections),
		"dimensions", len(cfg.Taxonomy.Dimensions))

	return cfg, nil
}

func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	user, err := loader.loadEngineYAML()
	if err != nil {
		return nil, NewLoadError("engine.yaml", err)
	}

	taxonomy := mergeTaxonomy(DefaultTaxonomy(), user.Taxonomy)
	thresholds := mergeThresholds(DefaultThresholds(), user.Thresholds)
	pricing := mergeAIPricing(DefaultAIPricing(), user.AIPricing)
	titleParsing := mergeTitleParsing(DefaultTitleParsing(), user.TitleParsing)

	filterPhrases := DefaultFilterPhrases()
	if len(user.FilterPhrases) > 0 {
		filterPhrases = user.FilterPhrases
	}

	server := mergeServerConfig(DefaultServerConfig(), user.Server)
	database := mergeDatabaseConfig(DefaultDatabaseConfig(), user.Database)
	redis := mergeRedisConfig(DefaultRedisConfig(), user.Redis)
	auth := mergeAuthConfig(DefaultAuthConfig(), user.Auth)
	slackCfg := mergeSlackConfig(DefaultSlackConfig(), user.Slack)
	sweeper := mergeSweeperConfig(DefaultSweeperConfig(), user.Sweeper)
	retention := mergeRetentionConfig(DefaultRetentionConfig(), user.Retention)

	return &Config{
		configDir:     configDir,
		Taxonomy:      taxonomy,
		Thresholds:    thresholds,
		AIPricing:     pricing,
		TitleParsing:  titleParsing,
		FilterPhrases: filterPhrases,
		Server:        server,
		Database:      database,
		Redis:         redis,
		Auth:          auth,
		Slack:         slackCfg,
		Sweeper:       sweeper,
		Retention:     retention,
	}, nil
}

// validate performs comprehensive validation on loaded configuration.
func validate(cfg *Config) error {
	v := NewValidator(cfg)
	return v.ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadEngineYAML() (*EngineYAMLConfig, error) {
	var cfg EngineYAMLConfig

	path := filepath.Join(l.configDir, "engine.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No user overrides on disk: defaults alone are a valid
			// configuration for a fresh deployment.
			return &cfg, nil
		}
		return nil, err
	}

	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}
