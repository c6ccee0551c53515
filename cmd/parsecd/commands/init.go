package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parsec-io/parsec-core/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Write a sample configuration file to the default location
(or to --config, if given), with every field set to its default value.

Examples:
  # Initialize at the default location
  parsecd init

  # Initialize at a custom path
  parsecd init --config /etc/parsecd/config.yaml

  # Overwrite an existing file
  parsecd init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	var (
		path string
		err  error
	)
	if GetConfigFile() != "" {
		path = GetConfigFile()
		err = config.InitConfigToPath(path, initForce)
	} else {
		path, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", path)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: parsecd start")
	fmt.Printf("  3. Or specify a custom config: parsecd start --config %s\n", path)
	return nil
}
