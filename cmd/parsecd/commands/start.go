package commands

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jcmturner/gokrb5/v8/keytab"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/parsec-io/parsec-core/internal/authn"
	"github.com/parsec-io/parsec-core/internal/backend"
	"github.com/parsec-io/parsec-core/internal/config"
	"github.com/parsec-io/parsec-core/internal/converter"
	"github.com/parsec-io/parsec-core/internal/dispatch"
	"github.com/parsec-io/parsec-core/internal/frontend"
	"github.com/parsec-io/parsec-core/internal/keyinfo"
	"github.com/parsec-io/parsec-core/internal/keyinfo/badger"
	"github.com/parsec-io/parsec-core/internal/keyinfo/memory"
	"github.com/parsec-io/parsec-core/internal/keyinfo/ondisk"
	sqlkeyinfo "github.com/parsec-io/parsec-core/internal/keyinfo/sql"
	"github.com/parsec-io/parsec-core/internal/logger"
	"github.com/parsec-io/parsec-core/internal/metrics"
	"github.com/parsec-io/parsec-core/internal/metrics/prometheus"
	"github.com/parsec-io/parsec-core/internal/provider"
	"github.com/parsec-io/parsec-core/internal/provider/core"
	"github.com/parsec-io/parsec-core/internal/provider/mbedcrypto"
	"github.com/parsec-io/parsec-core/internal/provider/pkcs11"
	"github.com/parsec-io/parsec-core/internal/provider/tpm"
	"github.com/parsec-io/parsec-core/internal/provider/trustedservice"
	"github.com/parsec-io/parsec-core/internal/server"
	"github.com/parsec-io/parsec-core/internal/telemetry"
	"github.com/parsec-io/parsec-core/internal/wire"
)

var (
	foreground bool
	pidFile    string
	logFile    string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the parsecd server",
	Long: `Start the parsecd server with the specified configuration.

By default, the server runs in the background (daemon mode). Use
--foreground to run in the foreground for debugging or when managed by a
process supervisor.

Examples:
  # Start in background (default)
  parsecd start

  # Start in foreground
  parsecd start --foreground

  # Start with custom config file
  parsecd start --config /etc/parsecd/config.yaml

  # Start with environment variable overrides
  PARSECD_LOGGING_LEVEL=DEBUG parsecd start --foreground`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVarP(&foreground, "foreground", "f", false, "Run in foreground (default: background/daemon mode)")
	startCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/parsecd/parsecd.pid)")
	startCmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file for daemon mode (default: $XDG_STATE_HOME/parsecd/parsecd.log)")
}

func runStart(cmd *cobra.Command, args []string) error {
	if !foreground {
		return startDaemon()
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	profilingShutdown, err := initProfiling(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	logger.Info("parsecd starting", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("configuration loaded", "source", getConfigSource(GetConfigFile()))

	var metricsServer *metrics.Server
	var reqMetrics *prometheus.RequestMetrics
	var keyMetrics *prometheus.KeyinfoMetrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		reqMetrics = prometheus.NewRequestMetrics()
		keyMetrics = prometheus.NewKeyinfoMetrics()
		metricsServer = metrics.NewServer(cfg.Metrics.Port)
		logger.Info("metrics enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("metrics collection disabled")
	}

	store, err := openKeyinfoStore(cfg, keyMetrics)
	if err != nil {
		return fmt.Errorf("failed to open keyinfo store: %w", err)
	}

	authReg, authInfos, err := buildAuthRegistry(cfg.Auth)
	if err != nil {
		return err
	}

	providers, providerOpcodes, dispatcher, err := buildDispatcher(store, authInfos)
	if err != nil {
		return err
	}

	fe := &frontend.Handler{
		Auth:       authReg,
		Dispatcher: dispatcher,
		BodyLimit:  cfg.Socket.BodyLimit,
		Metrics:    requestMetricsOrNil(reqMetrics),
	}

	pool := server.New(cfg.Pool.Size, fe, nil)

	if err := os.RemoveAll(cfg.Socket.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket %s: %w", cfg.Socket.Path, err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Socket.Path), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	ln, err := net.Listen("unix", cfg.Socket.Path)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Socket.Path, err)
	}
	if err := os.Chmod(cfg.Socket.Path, os.FileMode(cfg.Socket.Mode)); err != nil {
		logger.Warn("failed to set socket permissions", "error", err)
	}
	pool.PeerCreds = server.PeerCreds

	logger.Info("listening", "socket", cfg.Socket.Path, "providers", len(providers), "opcode_sets", len(providerOpcodes), "authenticators", len(authInfos))

	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	serverDone := make(chan error, 1)
	go func() { serverDone <- pool.Serve(ctx, ln) }()

	var metricsDone chan error
	if metricsServer != nil {
		metricsDone = make(chan error, 1)
		go func() { metricsDone <- metricsServer.Serve() }()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("server is running, press Ctrl+C to stop")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, initiating graceful shutdown")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("server shutdown error", "error", err)
			return err
		}
		logger.Info("server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		logger.Info("server stopped")
	}

	return nil
}

func initTelemetry(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "parsecd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	shutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	if telemetry.IsEnabled() {
		logger.Info("telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("telemetry disabled")
	}
	return shutdown, nil
}

func initProfiling(cfg *config.Config) (func() error, error) {
	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "parsecd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		Backend:        cfg.Keyinfo.Backend,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	shutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize profiling: %w", err)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	} else {
		logger.Info("profiling disabled")
	}
	return shutdown, nil
}

// openKeyinfoStore constructs the keyinfo.Manager named by
// cfg.Keyinfo.Backend, instrumented with keyMetrics when metrics are
// enabled.
func openKeyinfoStore(cfg *config.Config, keyMetrics *prometheus.KeyinfoMetrics) (keyinfo.Manager, error) {
	var (
		store       keyinfo.Manager
		backendName string
		err         error
	)

	switch cfg.Keyinfo.Backend {
	case "memory":
		backendName = "memory"
		store = memory.New()

	case "ondisk":
		backendName = "ondisk"
		if mkErr := os.MkdirAll(cfg.Keyinfo.Path, 0700); mkErr != nil {
			return nil, mkErr
		}
		store, err = ondisk.Open(cfg.Keyinfo.Path, nil)

	case "badger":
		backendName = "badger"
		if mkErr := os.MkdirAll(cfg.Keyinfo.Path, 0700); mkErr != nil {
			return nil, mkErr
		}
		store, err = badger.Open(cfg.Keyinfo.Path)

	case "sql":
		backendName = "sql"
		var db *gorm.DB
		db, err = openGormDB(cfg.Keyinfo.DSN)
		if err != nil {
			break
		}
		store, err = sqlkeyinfo.Open(db, cfg.Keyinfo.DSN)

	default:
		return nil, fmt.Errorf("unknown keyinfo backend %q", cfg.Keyinfo.Backend)
	}

	if err != nil {
		return nil, err
	}

	if keyMetrics != nil {
		return keyinfo.Instrument(store, backendName, keyMetrics), nil
	}
	return store, nil
}

// openGormDB picks the glebarez/sqlite or postgres gorm driver from dsn's
// scheme: "postgres://..." (or "postgresql://...") dials Postgres,
// anything else is treated as a sqlite file path.
func openGormDB(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

// buildDispatcher constructs every configured provider, the Core
// introspection handler sharing their metadata, and the Dispatcher routing
// requests between them.
func buildDispatcher(store keyinfo.Manager, authInfos []core.AuthenticatorInfo) ([]provider.Info, map[wire.ProviderID][]wire.Opcode, *dispatch.Dispatcher, error) {
	mbed := mbedcrypto.New(store)
	pk11 := pkcs11.New()
	tpmProv := tpm.New()
	trusted := trustedservice.New()

	reg := converter.NewRegistry()
	if err := reg.Register(wire.BodyTypeProtobuf, converter.NewProtobuf()); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to register converter: %w", err)
	}

	providerOpcodes := map[wire.ProviderID][]wire.Opcode{
		wire.ProviderCore:           {wire.OpPing, wire.OpListProviders, wire.OpListOpcodes, wire.OpListAuthenticators, wire.OpListKeys, wire.OpListClients},
		wire.ProviderMbedCrypto:     mbed.Opcodes(),
		wire.ProviderPkcs11:         pk11.Opcodes(),
		wire.ProviderTPM:            tpmProv.Opcodes(),
		wire.ProviderTrustedService: trusted.Opcodes(),
	}

	providers := []provider.Info{
		{ID: wire.ProviderCore, UUID: uuid.MustParse("40000000-0000-0000-0000-000000000000"), Description: "core introspection provider", VersionMaj: 1},
		mbed.Info(),
		pk11.Info(),
		tpmProv.Info(),
		trusted.Info(),
	}

	coreHandler := &core.Handler{
		Providers:       providers,
		ProviderOpcodes: providerOpcodes,
		Authenticators:  authInfos,
		KeyInfo:         store,
	}

	backends := []*backend.Handler{
		{
			Provider:    wire.ProviderCore,
			ContentType: wire.BodyTypeProtobuf,
			AcceptType:  wire.BodyTypeProtobuf,
			MaxVersion:  wire.ProtocolVersion,
			Converters:  reg,
			Executor:    coreHandler,
		},
		{
			Provider:    wire.ProviderMbedCrypto,
			ContentType: wire.BodyTypeProtobuf,
			AcceptType:  wire.BodyTypeProtobuf,
			MaxVersion:  wire.ProtocolVersion,
			Converters:  reg,
			Executor:    provider.Adapt(mbed),
		},
		{
			Provider:    wire.ProviderPkcs11,
			ContentType: wire.BodyTypeProtobuf,
			AcceptType:  wire.BodyTypeProtobuf,
			MaxVersion:  wire.ProtocolVersion,
			Converters:  reg,
			Executor:    provider.Adapt(pk11),
		},
		{
			Provider:    wire.ProviderTPM,
			ContentType: wire.BodyTypeProtobuf,
			AcceptType:  wire.BodyTypeProtobuf,
			MaxVersion:  wire.ProtocolVersion,
			Converters:  reg,
			Executor:    provider.Adapt(tpmProv),
		},
		{
			Provider:    wire.ProviderTrustedService,
			ContentType: wire.BodyTypeProtobuf,
			AcceptType:  wire.BodyTypeProtobuf,
			MaxVersion:  wire.ProtocolVersion,
			Converters:  reg,
			Executor:    provider.Adapt(trusted),
		},
	}

	disp := dispatch.New(backends...)

	return providers, providerOpcodes, disp, nil
}

// buildAuthRegistry registers the authenticators cfg.Auth enables and
// returns their descriptions for Core's ListAuthenticators.
func buildAuthRegistry(cfg config.AuthConfig) (*authn.Registry, []core.AuthenticatorInfo, error) {
	reg := authn.NewRegistry()
	var infos []core.AuthenticatorInfo

	if err := reg.Register(wire.AuthTypeNoAuth, authn.NoAuth{}); err != nil {
		return nil, nil, err
	}
	infos = append(infos, core.AuthenticatorInfo{AuthType: wire.AuthTypeNoAuth, Description: "no authentication"})

	if cfg.Direct {
		if err := reg.Register(wire.AuthTypeDirect, authn.Direct{}); err != nil {
			return nil, nil, err
		}
		infos = append(infos, core.AuthenticatorInfo{AuthType: wire.AuthTypeDirect, Description: "trust-on-declare"})
	}

	if cfg.UnixPeerCredentials {
		if err := reg.Register(wire.AuthTypeUnixPeerCredentials, authn.UnixPeerCredentials{}); err != nil {
			return nil, nil, err
		}
		infos = append(infos, core.AuthenticatorInfo{AuthType: wire.AuthTypeUnixPeerCredentials, Description: "Unix peer credentials (SO_PEERCRED)"})
	}

	if cfg.JWTBearer {
		secret := []byte(cfg.JWTSecret)
		keyFunc := func(*jwt.Token) (interface{}, error) { return secret, nil }
		var parserOpts []jwt.ParserOption
		if cfg.JWTIssuer != "" {
			parserOpts = append(parserOpts, jwt.WithIssuer(cfg.JWTIssuer))
		}
		if err := reg.Register(wire.AuthTypeJWTBearer, authn.JWTBearer{KeyFunc: keyFunc, ParserOptions: parserOpts}); err != nil {
			return nil, nil, err
		}
		infos = append(infos, core.AuthenticatorInfo{AuthType: wire.AuthTypeJWTBearer, Description: "JWT bearer token"})
	}

	if cfg.Kerberos {
		kt, err := loadKeytab(cfg.KerberosKeytabPath)
		if err != nil {
			return nil, nil, fmt.Errorf("kerberos: %w", err)
		}
		if err := reg.Register(wire.AuthTypeKerberos, authn.Kerberos{
			Keytab:           kt,
			ServicePrincipal: cfg.KerberosServicePrincipal,
			MaxClockSkew:     cfg.KerberosMaxClockSkew,
		}); err != nil {
			return nil, nil, err
		}
		infos = append(infos, core.AuthenticatorInfo{AuthType: wire.AuthTypeKerberos, Description: "Kerberos (SPNEGO/GSS AP-REQ)"})
	}

	return reg, infos, nil
}

// loadKeytab reads and parses a Kerberos keytab file.
func loadKeytab(path string) (*keytab.Keytab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keytab %s: %w", path, err)
	}
	kt := keytab.New()
	if err := kt.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("parse keytab %s: %w", path, err)
	}
	return kt, nil
}

func requestMetricsOrNil(m *prometheus.RequestMetrics) (out metrics.RequestMetrics) {
	if m == nil {
		return nil
	}
	return m
}

func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}

// startDaemon starts the server as a background daemon process.
func startDaemon() error {
	stateDir := GetDefaultStateDir()
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	pidPath := pidFile
	if pidPath == "" {
		pidPath = GetDefaultPidFile()
	}

	if _, err := os.Stat(pidPath); err == nil {
		pidData, err := os.ReadFile(pidPath)
		if err == nil {
			var pid int
			if _, err := fmt.Sscanf(string(pidData), "%d", &pid); err == nil {
				if process, err := os.FindProcess(pid); err == nil {
					if err := process.Signal(syscall.Signal(0)); err == nil {
						return fmt.Errorf("parsecd is already running (PID %d)\nUse 'parsecd stop' to stop the running instance", pid)
					}
				}
			}
		}
		_ = os.Remove(pidPath)
	}

	logPath := logFile
	if logPath == "" {
		logPath = GetDefaultLogFile()
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	daemonArgs := []string{"start", "--foreground", "--pid-file", pidPath}
	if GetConfigFile() != "" {
		daemonArgs = append(daemonArgs, "--config", GetConfigFile())
	}

	cmd := exec.Command(executable, daemonArgs...)

	logFileHandle, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	cmd.Stdout = logFileHandle
	cmd.Stderr = logFileHandle
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		_ = logFileHandle.Close()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	_ = logFileHandle.Close()

	fmt.Printf("parsecd started in background (PID %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", pidPath)
	fmt.Printf("  Log file: %s\n", logPath)
	fmt.Println("\nUse 'parsecd stop' to stop the server")
	fmt.Println("Use 'parsecd status' to check server status")

	return nil
}
