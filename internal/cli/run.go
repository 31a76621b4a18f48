package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/openqx/qflip/internal/backend"
	"github.com/openqx/qflip/internal/circuit"
	"github.com/openqx/qflip/internal/config"
	"github.com/openqx/qflip/internal/history"
	"github.com/openqx/qflip/internal/qval"
	"github.com/openqx/qflip/internal/record"
	"github.com/openqx/qflip/internal/schema"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Backend      string
	Shots        int
	Seed         int64
	Out          string
	Database     string
	IncludeState bool
	ComplexPairs bool
}

// RunReport is the run command's JSON payload.
type RunReport struct {
	Backend string         `json:"backend"`
	JobID   string         `json:"job_id"`
	Status  string         `json:"status"`
	Time    float64        `json:"time_sec"`
	Counts  map[string]int `json:"counts"`
	Out     string         `json:"out"`
	Hash    string         `json:"hash,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the Bell circuit and persist the result record",
		Long: `Execute the two-qubit Bell-state circuit on the configured backend,
print the measurement counts, and write the normalized result record
to the output file.

Configuration comes from the environment (QFLIP_BACKEND, QFLIP_EMAIL,
QFLIP_TIMEOUT, QFLIP_SHOTS, QFLIP_SEED, QFLIP_QCONFIG); flags override
the environment.

Example:
  qflip run
  qflip run --shots 1024 --seed 7 --out result.json --db ./qflip.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Backend, "backend", "", "execution backend (default from QFLIP_BACKEND)")
	cmd.Flags().IntVar(&opts.Shots, "shots", 0, "number of repetitions (default from QFLIP_SHOTS)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "sampling seed (default from QFLIP_SEED)")
	cmd.Flags().StringVar(&opts.Out, "out", "tmp-ck-timer.json", "output record path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "optional SQLite run history database")
	cmd.Flags().BoolVar(&opts.IncludeState, "state", false, "include the final statevector in the result")
	cmd.Flags().BoolVar(&opts.ComplexPairs, "complex-pairs", false, "encode complex values as [real, imag] instead of the real part")

	return cmd
}

func runDemo(opts *RunOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := config.Load()
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = opts.Backend
	}
	if cmd.Flags().Changed("shots") {
		if opts.Shots <= 0 {
			return outputError(formatter, ExitCommandError, ErrCodeConfig, fmt.Sprintf("shots must be positive, got %d", opts.Shots), nil)
		}
		cfg.Shots = opts.Shots
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = opts.Seed
	}

	reg := backend.LoadRegistration(cfg.QconfigPath)
	if reg.State == backend.LocalOnly {
		logger.Warn("no provider connection, running locally", "reason", reg.Reason)
	} else {
		logger.Info("provider registered", "url", reg.Credentials.URL)
	}

	registry := backend.NewRegistry(reg)
	names := registry.Names()
	formatter.VerboseLog("The backends available for use are: %v", names)
	formatter.VerboseLog("User email: %s", cfg.Email)

	b, err := registry.Get(cfg.Backend)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeBackend, "backend selection failed", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithTimeout(parentCtx, cfg.Timeout)
	defer cancel()

	logger.Debug("executing circuit", "backend", b.Name(), "shots", cfg.Shots, "seed", cfg.Seed)
	res, err := b.Run(ctx, circuit.Bell(), backend.RunOptions{
		Shots:        cfg.Shots,
		Seed:         cfg.Seed,
		IncludeState: opts.IncludeState,
	})
	if err != nil {
		return outputError(formatter, ExitFailure, ErrCodeBackend, "circuit execution failed", err)
	}

	var encodeOpts []qval.Option
	if opts.ComplexPairs {
		encodeOpts = append(encodeOpts, qval.WithComplexPairs())
	}

	rec := &record.Record{
		Backends: names,
		Email:    cfg.Email,
		Result:   res.Raw,
	}

	data, err := rec.Encode(encodeOpts...)
	if err != nil {
		if qval.IsUnsupportedKind(err) {
			return outputError(formatter, ExitFailure, ErrCodeNormalize, "result normalization failed", err)
		}
		return outputError(formatter, ExitFailure, ErrCodeGeneric, "record encoding failed", err)
	}

	violations, err := schema.ValidateRecord(data)
	if err != nil {
		return outputError(formatter, ExitFailure, ErrCodeSchema, "record schema check failed", err)
	}
	if len(violations) > 0 {
		return outputError(formatter, ExitFailure, ErrCodeSchema, fmt.Sprintf("record schema violations: %v", violations), nil)
	}

	if err := rec.WriteFile(opts.Out, encodeOpts...); err != nil {
		return outputError(formatter, ExitFailure, ErrCodeSink, "writing output record failed", err)
	}
	logger.Debug("record written", "path", opts.Out)

	report := RunReport{
		Backend: b.Name(),
		JobID:   res.JobID,
		Status:  res.Status,
		Time:    res.Time,
		Counts:  res.Counts,
		Out:     opts.Out,
	}

	if opts.Database != "" {
		hash, err := recordRun(parentCtx, opts.Database, cfg, rec, res, encodeOpts)
		if err != nil {
			return outputError(formatter, ExitFailure, ErrCodeStore, "recording run history failed", err)
		}
		report.Hash = hash
		logger.Debug("run recorded", "db", opts.Database, "hash", hash)
	}

	return outputRunReport(formatter, res, report)
}

// recordRun stores the run in the history database, keyed by the
// record's content hash.
func recordRun(ctx context.Context, dbPath string, cfg *config.Config, rec *record.Record, res *backend.Result, encodeOpts []qval.Option) (string, error) {
	hash, err := rec.Hash(encodeOpts...)
	if err != nil {
		return "", err
	}

	result, err := qval.Normalize(rec.Result, encodeOpts...)
	if err != nil {
		return "", err
	}
	backends := make(qval.Array, len(rec.Backends))
	for i, name := range rec.Backends {
		backends[i] = qval.Str(name)
	}
	canonical, err := qval.MarshalCanonical(qval.Object{
		"backends": backends,
		"email":    qval.Str(rec.Email),
		"result":   result,
	})
	if err != nil {
		return "", err
	}

	st, err := history.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	_, err = st.Insert(ctx, history.Run{
		Hash:      hash,
		Backend:   cfg.Backend,
		Shots:     cfg.Shots,
		Seed:      cfg.Seed,
		Status:    res.Status,
		Record:    string(canonical),
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		return "", err
	}
	return hash, nil
}

func outputRunReport(f *OutputFormatter, res *backend.Result, report RunReport) error {
	if f.Format == "json" {
		return f.Success(report)
	}

	fmt.Fprintln(f.Writer, report.Status)
	if report.Time > 0 {
		fmt.Fprintf(f.Writer, "Quantum execution time: %g sec\n", report.Time)
	}
	for _, outcome := range res.SortedCounts() {
		fmt.Fprintf(f.Writer, "%s: %d\n", outcome, res.Counts[outcome])
	}
	fmt.Fprintf(f.Writer, "record written to %s\n", report.Out)
	if report.Hash != "" {
		fmt.Fprintf(f.Writer, "recorded as %s\n", report.Hash)
	}
	return nil
}
