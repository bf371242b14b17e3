package scoreloanapplication

import (
	"time"

	"loan-approval-service/internal/common/config"
)

type Config struct {
	Enabled bool
	Timeout time.Duration
}

// NewConfig derives worker settings from the application config, falling
// back to the global Camunda defaults.
func NewConfig(cfg *config.Config) *Config {
	wc := cfg.GetWorkerConfig(TaskType)
	return &Config{
		Enabled: wc.Enabled,
		Timeout: config.GetDuration(wc.Timeout),
	}
}
