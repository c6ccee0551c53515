package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var stopPidFile string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running parsecd daemon",
	Long: `Send SIGTERM to the daemon named by the PID file and wait for it
to exit gracefully.

Examples:
  # Stop the daemon at the default PID file location
  parsecd stop

  # Stop a daemon started with a custom PID file
  parsecd stop --pid-file /run/parsecd/parsecd.pid`,
	RunE: runStop,
}

func init() {
	stopCmd.Flags().StringVar(&stopPidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/parsecd/parsecd.pid)")
}

func runStop(cmd *cobra.Command, args []string) error {
	pidPath := stopPidFile
	if pidPath == "" {
		pidPath = GetDefaultPidFile()
	}

	data, err := os.ReadFile(pidPath)
	if err != nil {
		return fmt.Errorf("parsecd does not appear to be running (no PID file at %s)", pidPath)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("invalid PID file %s: %w", pidPath, err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal process %d: %w", pid, err)
	}

	fmt.Printf("Sent SIGTERM to parsecd (PID %d), waiting for shutdown...\n", pid)

	for i := 0; i < 50; i++ {
		if err := process.Signal(syscall.Signal(0)); err != nil {
			fmt.Println("parsecd stopped.")
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("parsecd (PID %d) did not stop within 5s", pid)
}
