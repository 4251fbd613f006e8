package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"family_directory/internal/adapters/opener"
	"family_directory/internal/config"
	"family_directory/internal/config/connections/s3"
	"family_directory/internal/services/directory"
	"family_directory/internal/services/importer"
	"family_directory/internal/services/importer/processors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	configPath   string
	debug        bool
	start        int
	end          int
	localCity    string
	localState   string
	localZip     string
	expandBreaks bool
	output       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var opts options
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "family-directory [flags] <roster.csv|roster.xlsx|https://...|s3://bucket/key>",
		Short: "Build a family directory listing from a membership roster export",
		Long: `Reads a membership roster export (one row per person), groups people by
family, and prints one directory line per family sorted by surname and first
name. The sub-lines of a family are joined with <BREAK>.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.Debug)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			return run(cmd.Context(), cfg, args[0], logger, stdout)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.BoolVar(&opts.debug, "debug", false, "trace every roster row to stderr")
	f.IntVar(&opts.start, "start", defaults.Start, "first record to process (1-based)")
	f.IntVar(&opts.end, "end", defaults.End, "last record to process (0 = no limit)")
	f.StringVar(&opts.localCity, "local-city", defaults.Local.City, "local city name")
	f.StringVar(&opts.localState, "local-state", defaults.Local.State, "local state code")
	f.StringVar(&opts.localZip, "local-zip", defaults.Local.Zip, "local ZIP code")
	f.BoolVar(&opts.expandBreaks, "expand-breaks", false, "print sub-lines on separate lines instead of joining with <BREAK>")
	f.StringVarP(&opts.output, "output", "o", "", "write the listing to a file instead of stdout")

	return cmd
}

// apply copies flags the user actually set over the loaded config.
func (o *options) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("debug") {
		cfg.Debug = o.debug
	}
	if f.Changed("start") {
		cfg.Start = o.start
	}
	if f.Changed("end") {
		cfg.End = o.end
	}
	if f.Changed("local-city") {
		cfg.Local.City = o.localCity
	}
	if f.Changed("local-state") {
		cfg.Local.State = o.localState
	}
	if f.Changed("local-zip") {
		cfg.Local.Zip = o.localZip
	}
	if f.Changed("expand-breaks") {
		cfg.ExpandBreaks = o.expandBreaks
	}
	if f.Changed("output") {
		cfg.Output = o.output
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Sampling = nil
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// run reads the whole roster before writing anything, so a failed import
// produces no output.
func run(ctx context.Context, cfg *config.Config, input string, logger *zap.Logger, stdout io.Writer) error {
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	src, err := newOpener(cfg, input, logger)
	if err != nil {
		return err
	}

	svc := importer.NewService(src, cfg.BatchSize, logger)
	proc := processors.NewRosterProcessor(logger)
	res, err := svc.Import(ctx, importer.Request{
		FilePath: input,
		Start:    cfg.Start,
		End:      cfg.End,
		Debug:    cfg.Debug,
		Required: processors.RequiredColumns,
	}, proc)
	if err != nil {
		return fmt.Errorf("import %s: %w", input, err)
	}
	logger.Info("[RUN] roster loaded",
		zap.String("source", res.Source),
		zap.String("format", res.Format),
		zap.Int("rows", res.RowsProcessed),
		zap.Int("families", proc.Families.Len()),
		zap.String("sha256", res.SHA256))

	entries := directory.NewBuilder(cfg.Local, logger).Build(proc.Families.List())

	var buf bytes.Buffer
	if err := directory.NewPrinter(&buf, cfg.ExpandBreaks).Print(entries); err != nil {
		return err
	}
	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	_, err = stdout.Write(buf.Bytes())
	return err
}

func newOpener(cfg *config.Config, input string, logger *zap.Logger) (*opener.CompoundOpener, error) {
	var s3Op *opener.S3Opener
	if opener.IsS3(input) {
		conn, err := s3.NewConnection(cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("s3 connect: %w", err)
		}
		s3Op = opener.NewS3Opener(conn.Client, logger)
	}
	return opener.NewCompoundOpener(
		opener.NewLocalOpener(logger),
		opener.NewHTTPOpener(&http.Client{Timeout: 2 * time.Minute}, logger),
		s3Op,
	), nil
}
