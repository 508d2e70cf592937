package config

import "fmt"

// MetricsConfig controls the Prometheus endpoint serving scheduler and spawn
// counters of the daemon
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	Port int `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`

	// Host defaults to localhost
	Host string `mapstructure:"host"`

	// Path defaults to /metrics
	Path string `mapstructure:"path"`
}

// Endpoint is the scrape address, host:port/path
func (m MetricsConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d%s", m.Host, m.Port, m.Path)
}
