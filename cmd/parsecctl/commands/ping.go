package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parsec-io/parsec-core/cmd/parsecctl/cmdutil"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity and report the wire protocol version",
	RunE:  runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	c := cmdutil.NewClient(socketPath, timeout)
	res, err := c.Ping(context.Background())
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	fmt.Printf("parsecd reachable at %s (wire protocol v%d.%d)\n", socketPath, res.WireProtocolVersionMaj, res.WireProtocolVersionMin)
	return nil
}
