// Package config loads parsecd's configuration: a YAML file plus
// PARSECD_*-prefixed environment overrides, validated struct tags, and a
// fsnotify-backed Watcher. parsecd reads the configuration once at
// startup; it handles no SIGHUP and does not reload it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is parsecd's top-level configuration.
//
// Configuration sources, in order of precedence:
//  1. Environment variables (PARSECD_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing and Pyroscope
	// continuous profiling.
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Metrics configures the Prometheus metrics HTTP server.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Socket configures the Unix-domain-socket listener.
	Socket SocketConfig `mapstructure:"socket" yaml:"socket"`

	// Pool configures the bounded worker pool serving accepted connections.
	Pool PoolConfig `mapstructure:"pool" yaml:"pool"`

	// Keyinfo selects and configures the key-info persistence backend.
	Keyinfo KeyinfoConfig `mapstructure:"keyinfo" yaml:"keyinfo"`

	// Auth controls which authenticators are registered.
	Auth AuthConfig `mapstructure:"auth" yaml:"auth"`

	// ShutdownTimeout is validated and defaulted, but parsecd does not
	// read it: graceful shutdown waits for in-flight connections to
	// finish without a time bound.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// LogErrorDetails gates whether wrapped internal error text is
	// logged alongside a response's status code (spec.md §7).
	LogErrorDetails bool `mapstructure:"log_error_details" yaml:"log_error_details"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format is the output format: text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is "stdout", "stderr", or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
type TelemetryConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string  `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure   bool    `mapstructure:"insecure" yaml:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	Endpoint     string   `mapstructure:"endpoint" yaml:"endpoint"`
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// MetricsConfig configures the Prometheus metrics HTTP server.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// SocketConfig configures the Unix-domain-socket listener.
type SocketConfig struct {
	// Path is the filesystem path of the listening socket.
	Path string `mapstructure:"path" validate:"required" yaml:"path"`

	// Mode is the socket file's permission bits, e.g. 0660.
	Mode uint32 `mapstructure:"mode" yaml:"mode"`

	// BodyLimit bounds body_len+auth_len for one request (spec.md §5).
	BodyLimit uint32 `mapstructure:"body_limit" validate:"required,gt=0" yaml:"body_limit"`

	// ReadTimeout is validated and defaulted, but parsecd does not apply
	// it: no read deadline is set on accepted connections, so a connection
	// may sit idle indefinitely before its request has been fully read.
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"required,gt=0" yaml:"read_timeout"`
}

// PoolConfig configures the bounded worker pool.
type PoolConfig struct {
	// Size is the number of worker goroutines draining accepted
	// connections.
	Size int `mapstructure:"size" validate:"required,gt=0" yaml:"size"`
}

// KeyinfoConfig selects and configures the key-info persistence backend.
type KeyinfoConfig struct {
	// Backend is one of "memory", "ondisk", "badger", "sql".
	Backend string `mapstructure:"backend" validate:"required,oneof=memory ondisk badger sql" yaml:"backend"`

	// Path is the directory (ondisk, badger) holding persisted state.
	// Unused for "memory" and "sql".
	Path string `mapstructure:"path" yaml:"path,omitempty"`

	// DSN is the SQL data source name. Unused unless Backend is "sql".
	DSN string `mapstructure:"dsn" yaml:"dsn,omitempty"`
}

// AuthConfig controls which authenticators are registered.
type AuthConfig struct {
	// Direct enables the trust-on-declare authenticator.
	Direct bool `mapstructure:"direct" yaml:"direct"`

	// UnixPeerCredentials enables the SO_PEERCRED-derived authenticator.
	UnixPeerCredentials bool `mapstructure:"unix_peer_credentials" yaml:"unix_peer_credentials"`

	// JWTBearer enables the JWT bearer-token authenticator. Off by
	// default: it requires JWTSecret to verify anything (no JWKS
	// endpoint option exists), per spec.md §4.4's "explicitly optional"
	// framing.
	JWTBearer       bool   `mapstructure:"jwt_bearer" yaml:"jwt_bearer"`
	JWTSecret       string `mapstructure:"jwt_secret" yaml:"jwt_secret,omitempty"`
	JWTIssuer       string `mapstructure:"jwt_issuer" yaml:"jwt_issuer,omitempty"`

	// Kerberos enables the SPNEGO/GSS authenticator, which verifies a
	// client's AP-REQ against a service keytab. Off by default: it
	// requires a keytab and service principal to verify anything.
	Kerberos                 bool          `mapstructure:"kerberos" yaml:"kerberos"`
	KerberosKeytabPath       string        `mapstructure:"kerberos_keytab_path" yaml:"kerberos_keytab_path,omitempty"`
	KerberosServicePrincipal string        `mapstructure:"kerberos_service_principal" yaml:"kerberos_service_principal,omitempty"`
	KerberosMaxClockSkew     time.Duration `mapstructure:"kerberos_max_clock_skew" yaml:"kerberos_max_clock_skew,omitempty"`
}

// Load loads configuration from file, environment, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	if !found {
		cfg := GetDefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with friendly errors when the file is
// missing, pointing the operator at `parsecd init`.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  parsecd init\n\n"+
				"Or specify a custom config file:\n"+
				"  parsecd <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Please create the configuration file:\n"+
			"  parsecd init --config %s",
			configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML to path, creating parent directories as
// needed. The file is written with 0600 permissions since Auth.JWTSecret
// may hold sensitive material.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("PARSECD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// durationDecodeHook converts strings like "30s" and bare numbers to
// time.Duration, the way YAML/env values naturally arrive.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "parsecd")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "parsecd")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() string {
	return getConfigDir()
}

var validate = validator.New()

// Validate checks cfg against its struct tags, returning a
// go-playground/validator error listing every violated field.
func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}
