package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openqx/qflip/internal/backend"
	"github.com/openqx/qflip/internal/config"
)

// BackendInfo describes one backend in the backends listing.
type BackendInfo struct {
	Name      string `json:"name"`
	Simulator bool   `json:"simulator"`
}

// BackendsReport is the backends command's JSON payload.
type BackendsReport struct {
	Registration string        `json:"registration"`
	Backends     []BackendInfo `json:"backends"`
}

// NewBackendsCommand creates the backends command.
func NewBackendsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backends",
		Short: "List available execution backends",
		Long: `List the backends available for circuit execution.

The local simulator is always present. Remote provider backends appear
when QFLIP_QCONFIG points at a readable credentials file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackends(rootOpts, cmd)
		},
	}

	return cmd
}

func runBackends(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load()
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	reg := backend.LoadRegistration(cfg.QconfigPath)
	if reg.State == backend.LocalOnly {
		formatter.VerboseLog("local-only: %s", reg.Reason)
	}

	registry := backend.NewRegistry(reg)

	report := BackendsReport{Registration: reg.State.String()}
	for _, name := range registry.Names() {
		b, err := registry.Get(name)
		if err != nil {
			return outputError(formatter, ExitCommandError, ErrCodeBackend, "registry lookup failed", err)
		}
		report.Backends = append(report.Backends, BackendInfo{Name: b.Name(), Simulator: b.Simulator()})
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "registration: %s\n", report.Registration)
	for _, info := range report.Backends {
		kind := "hardware"
		if info.Simulator {
			kind = "simulator"
		}
		fmt.Fprintf(formatter.Writer, "%s (%s)\n", info.Name, kind)
	}
	return nil
}
