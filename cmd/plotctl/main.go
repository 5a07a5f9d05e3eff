package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"dataviz/internal/dataset"
	"dataviz/internal/exporter"
	"dataviz/internal/filter"
	"dataviz/internal/infrastructure"
	"dataviz/internal/inspect"
	"dataviz/internal/plot"
	"dataviz/internal/validation"
	"dataviz/pkg/contracts"
)

const (
	exitOK       = 0
	exitError    = 1
	exitAdvisory = 2
)

// options collects the parsed command line.
type options struct {
	in       string
	plotType string
	x, y     string
	xLabel   optionalString
	yLabel   optionalString
	title    optionalString
	width    int
	height   int
	out      string
	describe bool
	missing  bool
	corr     bool
	filter   string
	csvOut   string
	bom      bool
	comma    rune
	logLevel string
	version  bool
}

// optionalString distinguishes an unset flag from an explicit empty value.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value, o.set = s, true
	return nil
}

func (o optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("plotctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.in, "in", "", "input dataset (.csv, .xlsx or .parquet)")
	fs.StringVar(&opts.plotType, "type", "", "plot type, e.g. \"Scatter Plot\"")
	fs.StringVar(&opts.x, "x", "", "x axis column")
	fs.StringVar(&opts.y, "y", "", "y axis column")
	fs.Var(&opts.xLabel, "xlabel", "x axis label override")
	fs.Var(&opts.yLabel, "ylabel", "y axis label override")
	fs.Var(&opts.title, "title", "chart title override")
	fs.IntVar(&opts.width, "width", 0, "image width in pixels")
	fs.IntVar(&opts.height, "height", 0, "image height in pixels")
	fs.StringVar(&opts.out, "out", "plot.png", "output PNG path")
	fs.BoolVar(&opts.describe, "describe", false, "print summary statistics")
	fs.BoolVar(&opts.missing, "missing", false, "print missing value counts")
	fs.BoolVar(&opts.corr, "corr", false, "print the correlation matrix")
	fs.StringVar(&opts.filter, "filter", "", "keep rows where column=value")
	fs.StringVar(&opts.csvOut, "csv", "", "write filtered rows to this CSV file instead of stdout")
	fs.BoolVar(&opts.bom, "bom", false, "prefix filtered CSV output with a UTF-8 byte order mark")
	delimiter := fs.String("delimiter", ",", "filtered CSV field delimiter, a single character or \"tab\"")
	fs.StringVar(&opts.logLevel, "log-level", "info", "debug | info | warn | error")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.version {
		return opts, nil
	}
	if opts.in == "" {
		return opts, errors.New("-in is required")
	}
	if opts.csvOut != "" && opts.filter == "" {
		return opts, errors.New("-csv requires -filter")
	}
	comma, err := parseDelimiter(*delimiter)
	if err != nil {
		return opts, err
	}
	opts.comma = comma
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitError
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	logger := infrastructure.NewLogger(stderr, opts.logLevel, false)
	ctx = infrastructure.EnsureTraceID(ctx)

	inputs := validation.NewUploadValidator(0, dataset.SupportedExtensions(), logger)
	if err := inputs.ValidateFile(opts.in); err != nil {
		logger.ErrorContext(ctx, "invalid input file",
			slog.String("file", opts.in),
			slog.String("error", err.Error()))
		return exitError
	}

	table, err := dataset.LoadFile(ctx, opts.in)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load dataset",
			slog.String("file", opts.in),
			slog.String("error", err.Error()))
		return exitError
	}
	logger.InfoContext(ctx, "dataset loaded",
		slog.String("file", opts.in),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()))

	if err := report(table, opts, stdout); err != nil {
		logger.ErrorContext(ctx, "inspection failed", slog.String("error", err.Error()))
		return exitError
	}

	if opts.filter != "" {
		if err := writeFiltered(table, opts, stdout); err != nil {
			logger.ErrorContext(ctx, "filter failed",
				slog.String("filter", opts.filter),
				slog.String("error", err.Error()))
			return exitError
		}
		if opts.csvOut != "" {
			logger.InfoContext(ctx, "filtered rows written", slog.String("file", opts.csvOut))
		}
	}

	if opts.plotType == "" {
		return exitOK
	}

	size, err := renderPlot(table, opts)
	if errors.Is(err, plot.ErrMissingAxis) {
		fmt.Fprintln(stderr, plot.MissingAxisAdvisory)
		return exitAdvisory
	}
	if err != nil {
		logger.ErrorContext(ctx, "plot failed",
			slog.String("plot_type", opts.plotType),
			slog.String("error", err.Error()))
		return exitError
	}

	logger.InfoContext(ctx, "plot written",
		slog.String("file", opts.out),
		slog.String("plot_type", opts.plotType),
		slog.Int("width", size.Width),
		slog.Int("height", size.Height))
	return exitOK
}

// report prints the requested inspection tables as JSON documents.
func report(table *dataset.Table, opts options, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if opts.describe {
		if err := enc.Encode(inspect.Summary(table)); err != nil {
			return err
		}
	}
	if opts.missing {
		if err := enc.Encode(inspect.MissingCounts(table)); err != nil {
			return err
		}
	}
	if opts.corr {
		matrix, err := inspect.Correlation(table)
		if err != nil {
			return err
		}
		if err := enc.Encode(matrix); err != nil {
			return err
		}
	}
	return nil
}

func parseFilter(s string) (filter.Spec, error) {
	column, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(column) == "" {
		return filter.Spec{}, fmt.Errorf("filter %q must look like column=value", s)
	}
	return filter.Spec{Column: strings.TrimSpace(column), Value: dataset.Text(value)}, nil
}

func parseDelimiter(s string) (rune, error) {
	if s == "tab" || s == `\t` {
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' || r[0] == utf8.RuneError {
		return 0, fmt.Errorf("-delimiter %q must be a single character other than a quote or newline", s)
	}
	return r[0], nil
}

func writeFiltered(table *dataset.Table, opts options, stdout io.Writer) error {
	spec, err := parseFilter(opts.filter)
	if err != nil {
		return err
	}
	filtered, err := filter.Apply(table, spec)
	if err != nil {
		return err
	}
	csvOpts := exporter.WriteOptions{BOMPrefix: opts.bom, Comma: opts.comma}
	if opts.csvOut != "" {
		return exporter.WriteFile(opts.csvOut, filtered, csvOpts)
	}
	return exporter.WriteTable(stdout, filtered, csvOpts)
}

func renderPlot(table *dataset.Table, opts options) (plot.Size, error) {
	plotType, err := plot.ParseType(opts.plotType)
	if err != nil {
		return plot.Size{}, err
	}
	spec, err := plot.Validate(plot.Config{Type: plotType, X: opts.x, Y: opts.y})
	if err != nil {
		return plot.Size{}, err
	}

	var renderOpts []plot.Option
	if opts.width > 0 && opts.height > 0 {
		renderOpts = append(renderOpts, plot.WithSize(opts.width, opts.height))
	}
	chart, err := plot.Render(table, spec, renderOpts...)
	if err != nil {
		return plot.Size{}, err
	}
	defer chart.Close()

	chart.Customize(plot.Overrides{
		XLabel: opts.xLabel.ptr(),
		YLabel: opts.yLabel.ptr(),
		Title:  opts.title.ptr(),
	})
	data, err := chart.Encode(plot.FormatPNG)
	if err != nil {
		return plot.Size{}, err
	}

	if dir := filepath.Dir(opts.out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return plot.Size{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.out, data, 0644); err != nil {
		return plot.Size{}, fmt.Errorf("failed to write %s: %w", opts.out, err)
	}
	return chart.Size(), nil
}
