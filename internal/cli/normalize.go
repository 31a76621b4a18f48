package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openqx/qflip/internal/qval"
	"github.com/openqx/qflip/internal/record"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	Out string
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize <in.json>",
		Short: "Normalize a JSON result tree",
		Long: `Read a JSON value tree, run it through the result normalizer, and
emit the deterministic four-space-indented encoding (sorted keys,
byte-identical across invocations).

Example:
  qflip normalize result.json
  qflip normalize result.json --out normalized.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "write output to a file instead of stdout")

	return cmd
}

func runNormalize(opts *NormalizeOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeInput, "cannot read input", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeInput, fmt.Sprintf("%s is not valid JSON", path), err)
	}

	v, err := qval.FromGo(raw)
	if err != nil {
		return outputError(formatter, ExitFailure, ErrCodeNormalize, "conversion failed", err)
	}

	norm, err := qval.Normalize(v)
	if err != nil {
		return outputError(formatter, ExitFailure, ErrCodeNormalize, "normalization failed", err)
	}

	out, err := qval.EncodeIndent(norm)
	if err != nil {
		return outputError(formatter, ExitFailure, ErrCodeGeneric, "encoding failed", err)
	}

	if opts.Out != "" {
		if err := os.WriteFile(opts.Out, out, 0644); err != nil {
			return outputError(formatter, ExitFailure, ErrCodeSink, "writing output failed", &record.SinkError{Path: opts.Out, Err: err})
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
