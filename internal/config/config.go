package config

import "time"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Supabase  SupabaseConfig  `yaml:"supabase"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// SupabaseConfig carries the project the guard validates against.
// URL and AnonKey may be left empty to defer to the SUPABASE_URL and
// SUPABASE_ANON_KEY environment variables at request time.
type SupabaseConfig struct {
	URL     string            `yaml:"url"`
	AnonKey string            `yaml:"anon_key"`
	Headers map[string]string `yaml:"headers"`
	Schema  string            `yaml:"schema"`
}

// UpstreamConfig names the service the daemon fronts. Mode selects the
// guard policy: "require" or "optional".
type UpstreamConfig struct {
	URL             string `yaml:"url"`
	Mode            string `yaml:"mode"`
	IdentityHeaders bool   `yaml:"identity_headers"`
}

type TelemetryConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8484,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
		},
		Upstream: UpstreamConfig{
			Mode:            "require",
			IdentityHeaders: true,
		},
		Telemetry: TelemetryConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}
