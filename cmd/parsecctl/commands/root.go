package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	socketPath string
	outputFmt  string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "parsecctl",
	Short: "parsecctl - command-line client for parsecd",
	Long: `parsecctl talks to a running parsecd over its Unix domain socket to
inspect registered providers and authenticators and to manage keys.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "/run/parsecd/parsecd.sock", "Path to the parsecd Unix socket")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format (table|json|yaml|csv|jsonl)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Per-call timeout")

	rootCmd.AddCommand(
		versionCmd,
		pingCmd,
		listProvidersCmd,
		listOpcodesCmd,
		listAuthenticatorsCmd,
		listKeysCmd,
		listClientsCmd,
		generateKeyCmd,
		importKeyCmd,
		exportPublicKeyCmd,
		destroyKeyCmd,
		signHashCmd,
		verifyHashCmd,
		encryptCmd,
		decryptCmd,
		completionCmd,
	)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("parsecctl %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}
