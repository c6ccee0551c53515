package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/parsec-io/parsec-core/internal/cli/health"
	"github.com/parsec-io/parsec-core/internal/cli/output"
	"github.com/parsec-io/parsec-core/internal/cli/timeutil"
	"github.com/parsec-io/parsec-core/internal/config"
)

var (
	statusOutput  string
	statusPidFile string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Display the current status of the parsecd daemon.

Checks the PID file for a running process, then, if the configured
metrics HTTP server is enabled, probes its /health endpoint for uptime
and liveness.

Examples:
  # Check status
  parsecd status

  # Output as JSON
  parsecd status --output json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusPidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/parsecd/parsecd.pid)")
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// ServerStatus represents the server status information.
type ServerStatus struct {
	Running   bool   `json:"running" yaml:"running"`
	PID       int    `json:"pid,omitempty" yaml:"pid,omitempty"`
	Message   string `json:"message" yaml:"message"`
	StartedAt string `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	Uptime    string `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Healthy   bool   `json:"healthy" yaml:"healthy"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	status := ServerStatus{
		Running: false,
		Healthy: false,
		Message: "Server is not running",
	}

	pidPath := statusPidFile
	if pidPath == "" {
		pidPath = GetDefaultPidFile()
	}

	if pidData, err := os.ReadFile(pidPath); err == nil {
		if pid, err := strconv.Atoi(strings.TrimSpace(string(pidData))); err == nil {
			if process, err := os.FindProcess(pid); err == nil {
				if err := process.Signal(syscall.Signal(0)); err == nil {
					status.Running = true
					status.PID = pid
				}
			}
		}
	}

	if port := metricsPort(); port > 0 {
		healthURL := fmt.Sprintf("http://localhost:%d/health", port)
		httpClient := &http.Client{Timeout: 2 * time.Second}

		resp, err := httpClient.Get(healthURL)
		if err == nil {
			defer func() { _ = resp.Body.Close() }()

			var healthResp health.Response
			if err := json.NewDecoder(resp.Body).Decode(&healthResp); err == nil {
				status.Running = true
				status.Healthy = healthResp.Status == "healthy"
				status.StartedAt = healthResp.Data.StartedAt
				status.Uptime = healthResp.Data.Uptime
				if status.Healthy {
					status.Message = "Server is running and healthy"
				} else {
					status.Message = fmt.Sprintf("Server is running but unhealthy: %s", healthResp.Error)
				}
			} else {
				status.Running = true
				status.Message = "Server is running but health response invalid"
			}
		} else if status.Running {
			status.Message = "Server process exists but health check failed"
		}
	} else if status.Running {
		status.Message = "Server process exists (metrics server disabled, cannot verify health)"
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, status)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, status)
	default:
		printStatusTable(status)
	}

	return nil
}

// metricsPort returns the configured metrics port, or 0 if the metrics
// server is disabled or the config cannot be loaded.
func metricsPort() int {
	cfg, err := config.Load(GetConfigFile())
	if err != nil || !cfg.Metrics.Enabled {
		return 0
	}
	return cfg.Metrics.Port
}

func printStatusTable(status ServerStatus) {
	fmt.Println()
	fmt.Println("parsecd Server Status")
	fmt.Println("======================")
	fmt.Println()

	if status.Running {
		if status.Healthy {
			fmt.Printf("  Status:     \033[32m● Running\033[0m\n")
		} else {
			fmt.Printf("  Status:     \033[33m● Running (unhealthy)\033[0m\n")
		}
		fmt.Printf("  PID:        %d\n", status.PID)
		if status.StartedAt != "" {
			fmt.Printf("  Started:    %s\n", timeutil.FormatTime(status.StartedAt))
		}
		if status.Uptime != "" {
			fmt.Printf("  Uptime:     %s\n", timeutil.FormatUptime(status.Uptime))
		}
	} else {
		fmt.Printf("  Status:     \033[31m○ Stopped\033[0m\n")
	}

	fmt.Println()
	fmt.Printf("  %s\n", status.Message)
	fmt.Println()
}
