package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"bootci/dataset"
	"bootci/engine"
	"bootci/estimator"
	"bootci/interval"
	"bootci/storage"
)

type runOptions struct {
	Data    string  `yaml:"data"`
	Column  string  `yaml:"column"`
	Times   int     `yaml:"times"`
	Seed    int64   `yaml:"seed"`
	Alpha   float64 `yaml:"alpha"`
	Method  string  `yaml:"method"`
	Workers int     `yaml:"workers"`
	Store   string  `yaml:"store"`
	Label   string  `yaml:"label"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bootci",
		Short:         "Bootstrap confidence intervals over CSV data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opts := runOptions{
		Times:  2000,
		Alpha:  engine.DefaultAlpha,
		Method: interval.MethodPercentile,
	}
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Resample a CSV column and report a confidence interval for its mean",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := loadConfig(configPath, &opts, cmd); err != nil {
					return err
				}
			}
			return runBootstrap(cmd.Context(), cmd.OutOrStdout(), opts, verbose)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Data, "data", "", "CSV file with a header row")
	flags.StringVar(&opts.Column, "column", "", "column to estimate")
	flags.IntVar(&opts.Times, "times", opts.Times, "number of bootstrap replicates")
	flags.Int64Var(&opts.Seed, "seed", 0, "random seed")
	flags.Float64Var(&opts.Alpha, "alpha", opts.Alpha, "interval tail mass")
	flags.StringVar(&opts.Method, "method", opts.Method, "percentile, student-t or bca")
	flags.IntVar(&opts.Workers, "workers", 0, "max concurrent estimator fits (0 = GOMAXPROCS)")
	flags.StringVar(&opts.Store, "store", "", "badger directory to persist replicate results")
	flags.StringVar(&opts.Label, "label", "", "label stored with the run metadata")
	flags.StringVar(&configPath, "config", "", "yaml file with run options (flags win)")
	flags.BoolVar(&verbose, "verbose", false, "log run progress to stderr")

	return cmd
}

// loadConfig fills opts from a yaml file for any option not set on the
// command line.
func loadConfig(path string, opts *runOptions, cmd *cobra.Command) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fileOpts runOptions
	if err := yaml.Unmarshal(buf, &fileOpts); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	flags := cmd.Flags()
	if !flags.Changed("data") && fileOpts.Data != "" {
		opts.Data = fileOpts.Data
	}
	if !flags.Changed("column") && fileOpts.Column != "" {
		opts.Column = fileOpts.Column
	}
	if !flags.Changed("times") && fileOpts.Times != 0 {
		opts.Times = fileOpts.Times
	}
	if !flags.Changed("seed") && fileOpts.Seed != 0 {
		opts.Seed = fileOpts.Seed
	}
	if !flags.Changed("alpha") && fileOpts.Alpha != 0 {
		opts.Alpha = fileOpts.Alpha
	}
	if !flags.Changed("method") && fileOpts.Method != "" {
		opts.Method = fileOpts.Method
	}
	if !flags.Changed("workers") && fileOpts.Workers != 0 {
		opts.Workers = fileOpts.Workers
	}
	if !flags.Changed("store") && fileOpts.Store != "" {
		opts.Store = fileOpts.Store
	}
	if !flags.Changed("label") && fileOpts.Label != "" {
		opts.Label = fileOpts.Label
	}
	return nil
}

func runBootstrap(ctx context.Context, out io.Writer, opts runOptions, verbose bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Data == "" || opts.Column == "" {
		return fmt.Errorf("--data and --column are required, on the command line or in --config")
	}

	d, err := loadCSV(opts.Data)
	if err != nil {
		return err
	}
	if !d.HasField(opts.Column) {
		return fmt.Errorf("column %q not in %s", opts.Column, opts.Data)
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
	}

	cfg := engine.Config{
		Times:           opts.Times,
		Seed:            opts.Seed,
		IncludeApparent: true,
		Alpha:           opts.Alpha,
		Workers:         opts.Workers,
		Logger:          logger,
		Label:           opts.Label,
	}
	if opts.Store != "" {
		backend, err := storage.OpenBadgerBackend(opts.Store)
		if err != nil {
			return err
		}
		store := storage.NewResultStore(backend, true)
		defer store.Close()
		cfg.Store = store
	}

	run, err := engine.New(cfg).Run(ctx, d, estimator.Mean(opts.Column))
	if err != nil {
		return err
	}

	var table []interval.Interval
	switch opts.Method {
	case interval.MethodPercentile:
		table, err = run.Percentile()
	case interval.MethodStudentT:
		table, err = run.StudentT()
	case interval.MethodBCa:
		table, err = run.BCa(ctx)
	default:
		return fmt.Errorf("unknown method %q", opts.Method)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%-12s %12s %12s %12s %8s %s\n",
		"term", ".lower", ".estimate", ".upper", ".alpha", ".method")
	for _, iv := range table {
		fmt.Fprintf(out, "%-12s %12.6g %12.6g %12.6g %8g %s\n",
			iv.Term, iv.Lower, iv.Estimate, iv.Upper, iv.Alpha, iv.Method)
	}
	if run.Dropped > 0 {
		fmt.Fprintf(out, "dropped %d of %d replicates\n", run.Dropped, opts.Times)
	}
	return nil
}

// loadCSV reads a headered CSV of numeric columns.
func loadCSV(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", path, err)
	}

	columns := make([][]float64, len(header))
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row++
		for i, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %q: %w", path, row, header[i], err)
			}
			columns[i] = append(columns[i], v)
		}
	}

	return dataset.New(header, columns)
}
