package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parsec-io/parsec-core/cmd/parsecctl/cmdutil"
	"github.com/parsec-io/parsec-core/internal/client"
	"github.com/parsec-io/parsec-core/internal/wire"
)

var listOpcodesCmd = &cobra.Command{
	Use:   "list-opcodes <provider>",
	Short: "List the opcodes a provider supports",
	Long: `List the opcodes a provider supports.

<provider> is the provider's name, one of "Core", "MbedCrypto", "Pkcs11",
"Tpm", or "TrustedService".`,
	Args: cobra.ExactArgs(1),
	RunE: runListOpcodes,
}

// OpcodeList renders a ListOpcodesResult as a table.
type OpcodeList []wire.Opcode

func (ol OpcodeList) Headers() []string { return []string{"OPCODE", "NAME"} }

func (ol OpcodeList) Rows() [][]string {
	rows := make([][]string, 0, len(ol))
	for _, op := range ol {
		rows = append(rows, []string{fmt.Sprintf("%d", uint16(op)), op.String()})
	}
	return rows
}

func runListOpcodes(cmd *cobra.Command, args []string) error {
	provider, err := client.ParseProviderID(args[0])
	if err != nil {
		return err
	}

	c := cmdutil.NewClient(socketPath, timeout)
	res, err := c.ListOpcodes(context.Background(), provider)
	if err != nil {
		return fmt.Errorf("list-opcodes failed: %w", err)
	}

	list := make(OpcodeList, 0, len(res.Opcodes))
	for _, op := range res.Opcodes {
		list = append(list, wire.Opcode(op))
	}

	return cmdutil.PrintOutput(os.Stdout, outputFmt, list, len(list) == 0, "No opcodes registered for this provider.", list)
}
