package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parsec-io/parsec-core/cmd/parsecctl/cmdutil"
	"github.com/parsec-io/parsec-core/internal/wire"
)

var listProvidersCmd = &cobra.Command{
	Use:   "list-providers",
	Short: "List the providers registered with parsecd",
	RunE:  runListProviders,
}

// ProviderList renders a ListProvidersResult as a table.
type ProviderList []providerRow

type providerRow struct {
	ID          wire.ProviderID
	Name        string
	Description string
	Version     string
}

func (pl ProviderList) Headers() []string {
	return []string{"ID", "NAME", "VERSION", "DESCRIPTION"}
}

func (pl ProviderList) Rows() [][]string {
	rows := make([][]string, 0, len(pl))
	for _, p := range pl {
		rows = append(rows, []string{fmt.Sprintf("%d", uint8(p.ID)), p.Name, p.Version, cmdutil.EmptyOr(p.Description, "-")})
	}
	return rows
}

func runListProviders(cmd *cobra.Command, args []string) error {
	c := cmdutil.NewClient(socketPath, timeout)
	res, err := c.ListProviders(context.Background())
	if err != nil {
		return fmt.Errorf("list-providers failed: %w", err)
	}

	list := make(ProviderList, 0, len(res.Providers))
	for _, p := range res.Providers {
		list = append(list, providerRow{
			ID:          wire.ProviderID(p.ID),
			Name:        p.Name,
			Description: p.Description,
			Version:     fmt.Sprintf("%d.%d", p.VersionMaj, p.VersionMin),
		})
	}

	return cmdutil.PrintOutput(os.Stdout, outputFmt, list, len(list) == 0, "No providers registered.", list)
}
