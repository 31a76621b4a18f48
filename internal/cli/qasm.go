package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openqx/qflip/internal/circuit"
)

// NewQASMCommand creates the qasm command.
func NewQASMCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "qasm",
		Short:         "Print the Bell circuit as OpenQASM 2.0",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), circuit.Bell().QASM())
			return nil
		},
	}

	return cmd
}
