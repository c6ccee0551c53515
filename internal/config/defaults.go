package config

import (
	"strings"
	"time"
)

// ApplyDefaults fills in any zero-valued fields left unset by the config
// file and environment after Load's Unmarshal.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applySocketDefaults(&cfg.Socket)
	applyPoolDefaults(&cfg.Pool)
	applyKeyinfoDefaults(&cfg.Keyinfo)
	applyAuthDefaults(&cfg.Auth)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
	applyProfilingDefaults(&cfg.Profiling)
}

func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{"cpu", "alloc_objects", "alloc_space", "inuse_objects", "inuse_space", "goroutines"}
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applySocketDefaults(cfg *SocketConfig) {
	if cfg.Path == "" {
		cfg.Path = "/run/parsecd/parsecd.sock"
	}
	if cfg.Mode == 0 {
		cfg.Mode = 0660
	}
	if cfg.BodyLimit == 0 {
		cfg.BodyLimit = 1 << 20 // 1 MiB, generous for the largest body (signed data, imported key material)
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
}

func applyPoolDefaults(cfg *PoolConfig) {
	if cfg.Size == 0 {
		cfg.Size = 16
	}
}

func applyKeyinfoDefaults(cfg *KeyinfoConfig) {
	if cfg.Backend == "" {
		cfg.Backend = "ondisk"
	}
	if cfg.Path == "" {
		cfg.Path = "/var/lib/parsecd/keyinfo"
	}
}

func applyAuthDefaults(cfg *AuthConfig) {
	// Direct and UnixPeerCredentials default to on: NoAuth alone would
	// make every key namespaced under the empty ApplicationName, which
	// defeats the per-application KeyTriple isolation spec.md requires.
	if !cfg.Direct && !cfg.UnixPeerCredentials && !cfg.JWTBearer && !cfg.Kerberos {
		cfg.Direct = true
		cfg.UnixPeerCredentials = true
	}
	if cfg.Kerberos && cfg.KerberosMaxClockSkew == 0 {
		cfg.KerberosMaxClockSkew = 5 * time.Minute
	}
}

// GetDefaultConfig returns a complete, valid Config with every field at
// its default value.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
