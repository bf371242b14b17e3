package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig               `mapstructure:"app"`
	Logging LoggingConfig           `mapstructure:"logging"`
	Server  ServerConfig            `mapstructure:"server"`
	Model   ModelConfig             `mapstructure:"model"`
	Docs    DocsConfig              `mapstructure:"docs"`
	Camunda CamundaConfig           `mapstructure:"camunda"`
	Workers map[string]WorkerConfig `mapstructure:"workers"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig holds HTTP server settings. Timeouts are milliseconds.
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ModelConfig holds the scoring artifact settings. The artifact path is
// fixed for the process lifetime; the gateway reads it at most once.
type ModelConfig struct {
	ArtifactPath        string `mapstructure:"artifact_path"`
	ImportanceImagePath string `mapstructure:"importance_image_path"`
	WarmLoad            bool   `mapstructure:"warm_load"`
}

// DocsConfig holds the optional documentation catalog override.
type DocsConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`
}

// CamundaConfig holds workflow-engine settings. The transport is optional;
// when disabled the service runs HTTP-only. Timeouts are milliseconds.
type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`
	RequestTimeout int    `mapstructure:"request_timeout"`
}

// WorkerConfig holds per-task-type worker settings.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`
}
