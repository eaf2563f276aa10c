package config

import "time"

// SweeperConfig controls the timeout sweeper's poll loop (§4.6), adapted
// from the teacher's queue worker-pool settings: the sweeper is a single
// poll loop rather than a worker pool claiming rows, but the same
// jittered-interval and graceful-shutdown shape applies.
type SweeperConfig struct {
	// PollInterval is the base interval between sweep passes.
	PollInterval time.Duration `yaml:"poll_interval"`

	// PollIntervalJitter is random jitter added to PollInterval so that
	// multiple engine replicas do not sweep in lockstep.
	PollIntervalJitter time.Duration `yaml:"poll_interval_jitter"`

	// GracefulShutdownTimeout bounds how long a sweep pass is given to
	// finish after a shutdown signal before the process exits anyway.
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout"`
}

// DefaultSweeperConfig returns the built-in sweeper defaults.
func DefaultSweeperConfig() *SweeperConfig {
	return &SweeperConfig{
		PollInterval:            5 * time.Minute,
		PollIntervalJitter:      30 * time.Second,
		GracefulShutdownTimeout: 1 * time.Minute,
	}
}
