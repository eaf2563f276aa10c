package config

import "dario.cat/mergo"

// Each mergeX function starts from the compiled-in default, deep-merges
// whatever fields the operator set in engine.yaml on top (non-zero values
// win), and returns the combined value. A nil override is a no-op — the
// default is returned untouched. mergo.Merge mutates its first argument in
// place, so every call operates on a fresh copy of the default, never the
// shared DefaultX() package-level literal.

func mergeTaxonomy(base *Taxonomy, override *Taxonomy) *Taxonomy {
	if override == nil {
		return base
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
		return base
	}
	return &merged
}

func mergeThresholds(base *Thresholds, override *Thresholds) *Thresholds {
	if override == nil {
		return base
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return base
	}
	return &merged
}

func mergeAIPricing(base *AIPricing, override *AIPricing) *AIPricing {
	if override == nil {
		return base
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return base
	}
	return &merged
}

func mergeTitleParsing(base *TitleParsing, override *TitleParsing) *TitleParsing {
	if override == nil {
		return base
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
		return base
	}
	return &merged
}

func mergeServerConfig(base *ServerConfig, override *ServerConfig) *ServerConfig {
	if override == nil {
		return base
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return base
	}
	return &merged
}

func mergeDatabaseConfig(base *DatabaseConfig, override *DatabaseConfig) *DatabaseConfig {
	if override == nil {
		return base
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return base
	}
	return &merged
}

func mergeRedisConfig(base *RedisConfig, override *RedisConfig) *RedisConfig {
	if override == nil {
		return base
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return base
	}
	return &merged
}

func mergeAuthConfig(base *AuthConfig, override *AuthConfig) *AuthConfig {
	if override == nil {
		return base
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return base
	}
	return &merged
}

func mergeSlackConfig(base *SlackConfig, override *SlackConfig) *SlackConfig {
	if override == nil {
		return base
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return base
	}
	return &merged
}

func mergeSweeperConfig(base *SweeperConfig, override *SweeperConfig) *SweeperConfig {
	if override == nil {
		return base
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return base
	}
	return &merged
}

func mergeRetentionConfig(base *RetentionConfig, override *RetentionConfig) *RetentionConfig {
	if override == nil {
		return base
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return base
	}
	return &merged
}
