// Package config loads process configuration.
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("a2a.yaml").
//	    Load()
//
// Precedence: defaults, then the YAML file, then A2A_* environment
// variables. Command line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"
)

// Config is the full process configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" env:"SERVER"`
	Agent   AgentConfig   `yaml:"agent" env:"AGENT"`
	Client  ClientConfig  `yaml:"client" env:"CLIENT"`
	Demo    DemoConfig    `yaml:"demo" env:"DEMO"`
	Log     LogConfig     `yaml:"log" env:"LOG"`
	Metrics MetricsConfig `yaml:"metrics" env:"METRICS"`
}

// ServerConfig configures the A2A HTTP server.
type ServerConfig struct {
	Host         string   `yaml:"host" env:"HOST"`
	Port         int      `yaml:"port" env:"PORT"`
	AllowOrigins []string `yaml:"allow_origins" env:"ALLOW_ORIGINS"`
	// Graceful shutdown budget.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	// Per JSON-RPC request handler budget.
	RequestTimeout        time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	MaxConcurrentRequests int64         `yaml:"max_concurrent_requests" env:"MAX_CONCURRENT_REQUESTS"`
}

// AgentConfig selects the served agent.
type AgentConfig struct {
	// add, subtract, echo or remote
	Kind    string `yaml:"kind" env:"KIND"`
	Version string `yaml:"version" env:"VERSION"`
	// Endpoint the remote kind forwards to.
	RemoteURL string `yaml:"remote_url" env:"REMOTE_URL"`
}

// ClientConfig configures outbound calls.
type ClientConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
	APIKey  string        `yaml:"api_key" env:"API_KEY"`
}

// DemoConfig configures the two-agent demo.
type DemoConfig struct {
	AddURL      string `yaml:"add_url" env:"ADD_URL"`
	SubtractURL string `yaml:"subtract_url" env:"SUBTRACT_URL"`
	Text        string `yaml:"text" env:"TEXT"`
}

// LogConfig configures zap.
type LogConfig struct {
	// debug, info, warn, error
	Level string `yaml:"level" env:"LEVEL"`
	// json or console
	Format      string   `yaml:"format" env:"FORMAT"`
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                  "localhost",
			Port:                  5000,
			ShutdownTimeout:       5 * time.Second,
			RequestTimeout:        30 * time.Second,
			MaxConcurrentRequests: 64,
		},
		Agent: AgentConfig{
			Kind:    "add",
			Version: "1.0.0",
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
		},
		Demo: DemoConfig{
			AddURL:      "http://localhost:5000/a2a",
			SubtractURL: "http://localhost:5001/a2a",
			Text:        "5,2",
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			OutputPaths: []string{"stderr"},
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "a2a",
		},
	}
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "console"}
)

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	if c.Server.RequestTimeout < 0 {
		errs = append(errs, errors.New("server.request_timeout must not be negative"))
	}
	if c.Server.MaxConcurrentRequests < 0 {
		errs = append(errs, errors.New("server.max_concurrent_requests must not be negative"))
	}
	if c.Agent.Kind == "" {
		errs = append(errs, errors.New("agent.kind is required"))
	}
	if c.Agent.Kind == "remote" && c.Agent.RemoteURL == "" {
		errs = append(errs, errors.New("agent.remote_url is required for the remote agent"))
	}
	if c.Client.Timeout < 0 {
		errs = append(errs, errors.New("client.timeout must not be negative"))
	}
	for name, raw := range map[string]string{"demo.add_url": c.Demo.AddURL, "demo.subtract_url": c.Demo.SubtractURL} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if !slices.Contains(validLogLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q must be one of %v", c.Log.Level, validLogLevels))
	}
	if !slices.Contains(validLogFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format %q must be one of %v", c.Log.Format, validLogFormats))
	}

	return errors.Join(errs...)
}
