package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parsec-io/parsec-core/cmd/parsecctl/cmdutil"
	"github.com/parsec-io/parsec-core/internal/wire"
)

var listAuthenticatorsCmd = &cobra.Command{
	Use:   "list-authenticators",
	Short: "List the authenticators parsecd accepts",
	RunE:  runListAuthenticators,
}

// AuthenticatorList renders a ListAuthenticatorsResult as a table.
type AuthenticatorList []authenticatorRow

type authenticatorRow struct {
	Type        wire.AuthType
	Description string
}

func (al AuthenticatorList) Headers() []string { return []string{"TYPE", "DESCRIPTION"} }

func (al AuthenticatorList) Rows() [][]string {
	rows := make([][]string, 0, len(al))
	for _, a := range al {
		rows = append(rows, []string{a.Type.String(), cmdutil.EmptyOr(a.Description, "-")})
	}
	return rows
}

func runListAuthenticators(cmd *cobra.Command, args []string) error {
	c := cmdutil.NewClient(socketPath, timeout)
	res, err := c.ListAuthenticators(context.Background())
	if err != nil {
		return fmt.Errorf("list-authenticators failed: %w", err)
	}

	list := make(AuthenticatorList, 0, len(res.Authenticators))
	for _, a := range res.Authenticators {
		list = append(list, authenticatorRow{Type: wire.AuthType(a.AuthType), Description: a.Description})
	}

	return cmdutil.PrintOutput(os.Stdout, outputFmt, list, len(list) == 0, "No authenticators registered.", list)
}
