// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Transport TransportConfig `mapstructure:"transport"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Notices   NoticeConfig    `mapstructure:"notices"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// TransportConfig controls the simulated network layer.
type TransportConfig struct {
	MinLatency       int     `mapstructure:"min_latency"`       // milliseconds
	MaxLatency       int     `mapstructure:"max_latency"`       // milliseconds
	WriteFailureRate float64 `mapstructure:"write_failure_rate"` // [0,1)
}

// MinLatencyDuration returns the lower latency bound.
func (t TransportConfig) MinLatencyDuration() time.Duration {
	return GetDuration(t.MinLatency)
}

// MaxLatencyDuration returns the upper latency bound.
func (t TransportConfig) MaxLatencyDuration() time.Duration {
	return GetDuration(t.MaxLatency)
}

// SeedConfig controls initial store population.
type SeedConfig struct {
	Jobs       int   `mapstructure:"jobs"`
	Candidates int   `mapstructure:"candidates"`
	RandomSeed int64 `mapstructure:"random_seed"` // 0 means time-based
}

// NoticeConfig controls transient user-visible notices.
type NoticeConfig struct {
	TTL int `mapstructure:"ttl"` // milliseconds
}

// TTLDuration returns the notice lifetime.
func (n NoticeConfig) TTLDuration() time.Duration {
	return GetDuration(n.TTL)
}

// MetricsConfig holds the metrics/pprof listen address.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
