package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parsec-io/parsec-core/cmd/parsecctl/cmdutil"
	"github.com/parsec-io/parsec-core/internal/client"
)

var listClientsCmd = &cobra.Command{
	Use:   "list-clients",
	Short: "List every application with at least one key on record",
	RunE:  runListClients,
}

func init() {
	listClientsCmd.Flags().String("provider", "Core", "Provider to route the request through")
}

// ClientList renders a ListClientsResult as a table.
type ClientList []string

func (cl ClientList) Headers() []string { return []string{"APPLICATION"} }

func (cl ClientList) Rows() [][]string {
	rows := make([][]string, 0, len(cl))
	for _, name := range cl {
		rows = append(rows, []string{name})
	}
	return rows
}

func runListClients(cmd *cobra.Command, args []string) error {
	providerName, _ := cmd.Flags().GetString("provider")
	provider, err := client.ParseProviderID(providerName)
	if err != nil {
		return err
	}

	c := cmdutil.NewClient(socketPath, timeout)
	res, err := c.ListClients(context.Background(), provider)
	if err != nil {
		return fmt.Errorf("list-clients failed: %w", err)
	}

	list := ClientList(res.Clients)
	return cmdutil.PrintOutput(os.Stdout, outputFmt, list, len(list) == 0, "No clients on record.", list)
}
