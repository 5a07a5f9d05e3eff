package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"dataviz/internal/config"
	"dataviz/internal/dataset"
	"dataviz/internal/exporter"
	"dataviz/internal/filter"
	"dataviz/internal/infrastructure"
	"dataviz/internal/inspect"
	"dataviz/internal/plot"
	"dataviz/internal/validation"
)

// DatasetInfo describes a loaded dataset session.
type DatasetInfo struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Format         string    `json:"format"`
	Rows           int       `json:"rows"`
	Columns        []string  `json:"columns"`
	NumericColumns []string  `json:"numeric_columns"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccess     time.Time `json:"last_access"`
}

// FilterResult is the head of a filtered table plus the number of matching
// rows.
type FilterResult struct {
	View    inspect.TableView `json:"view"`
	Matches int               `json:"matches"`
}

// PlotRequest selects a plot type, its axes and optional label overrides.
// Zero Width or Height keeps the configured surface size.
type PlotRequest struct {
	Type      plot.PlotType
	X         string
	Y         string
	Overrides plot.Overrides
	Width     int
	Height    int
}

// PlotImage is an encoded chart ready to be served.
type PlotImage struct {
	Data        []byte
	ContentType string
	Filename    string
	Type        plot.PlotType
	Labels      plot.Labels
	Size        plot.Size
}

// ExplorerOption configures an ExplorerService.
type ExplorerOption func(*ExplorerService)

// WithTracer sets the tracer used for service spans.
func WithTracer(tracer trace.Tracer) ExplorerOption {
	return func(s *ExplorerService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the instruments updated on uploads and renders.
func WithMetrics(metrics *infrastructure.Metrics) ExplorerOption {
	return func(s *ExplorerService) { s.metrics = metrics }
}

// ExplorerService runs the explore pipeline against session-scoped tables:
// upload, inspect, filter and plot.
type ExplorerService struct {
	store   *dataset.Store
	uploads *validation.UploadValidator
	render  config.RenderConfig
	tracer  trace.Tracer
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewExplorerService creates the service over store. uploads may be nil to
// accept any file the loaders understand.
func NewExplorerService(store *dataset.Store, uploads *validation.UploadValidator, render config.RenderConfig, logger *slog.Logger, opts ...ExplorerOption) *ExplorerService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ExplorerService{
		store:   store,
		uploads: uploads,
		render:  render,
		tracer:  otel.Tracer(infrastructure.InstrumentationName),
		logger:  infrastructure.WithComponent(logger, "explorer_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActiveSessions returns the number of sessions held by the store.
func (s *ExplorerService) ActiveSessions() int {
	return s.store.Len()
}

func (s *ExplorerService) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "explorer."+op, trace.WithAttributes(attrs...))
}

func (s *ExplorerService) fail(ctx context.Context, op string, err error) error {
	infrastructure.RecordError(ctx, err)
	level := slog.LevelWarn
	if errors.Is(err, ErrPlotFailed) && !errors.As(err, new(*plot.RenderError)) {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "explorer operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return err
}

// Upload validates, parses and registers a dataset. size is the byte length
// reported by the client.
func (s *ExplorerService) Upload(ctx context.Context, name string, size int64, r io.Reader) (DatasetInfo, error) {
	ctx, span := s.start(ctx, "upload",
		attribute.String("dataset.name", name),
		attribute.Int64("dataset.size", size))
	defer span.End()

	if s.uploads != nil {
		if err := s.uploads.Validate(name, size); err != nil {
			return DatasetInfo{}, s.fail(ctx, "upload", fmt.Errorf("%w: %w", ErrUploadRejected, err))
		}
	}

	start := time.Now()
	table, err := dataset.Load(ctx, name, r)
	if err != nil {
		if errors.Is(err, dataset.ErrUnsupportedFormat) {
			return DatasetInfo{}, s.fail(ctx, "upload", fmt.Errorf("%w: %w", ErrUnsupportedFormat, err))
		}
		return DatasetInfo{}, s.fail(ctx, "upload", fmt.Errorf("%w: %w", ErrInvalidDataset, err))
	}

	sess, err := s.store.Create(name, table)
	if err != nil {
		if errors.Is(err, dataset.ErrStoreFull) {
			return DatasetInfo{}, s.fail(ctx, "upload", fmt.Errorf("%w: %w", ErrServiceUnavailable, err))
		}
		return DatasetInfo{}, s.fail(ctx, "upload", err)
	}

	info := datasetInfo(sess)
	s.metrics.RecordDatasetLoaded(ctx, info.Format)
	span.SetAttributes(
		attribute.String("dataset.id", sess.ID),
		attribute.Int("dataset.rows", info.Rows),
		attribute.Int("dataset.columns", len(info.Columns)))

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("dataset_id", sess.ID),
		slog.String("name", name),
		slog.String("format", info.Format),
		slog.Int("rows", info.Rows),
		slog.Int("columns", len(info.Columns)),
		slog.Duration("duration", time.Since(start)))
	return info, nil
}

// Dataset returns the description of a session.
func (s *ExplorerService) Dataset(ctx context.Context, id string) (DatasetInfo, error) {
	ctx, span := s.start(ctx, "dataset", attribute.String("dataset.id", id))
	defer span.End()

	sess, err := s.session(id)
	if err != nil {
		return DatasetInfo{}, s.fail(ctx, "dataset", err)
	}
	return datasetInfo(sess), nil
}

// Close ends a session and drops its table.
func (s *ExplorerService) Close(ctx context.Context, id string) error {
	ctx, span := s.start(ctx, "close", attribute.String("dataset.id", id))
	defer span.End()

	if err := s.store.Delete(id); err != nil {
		return s.fail(ctx, "close", mapStoreErr(err))
	}
	s.logger.InfoContext(ctx, "dataset closed", slog.String("dataset_id", id))
	return nil
}

// Preview returns the first n rows. A non-positive n uses the configured
// preview size.
func (s *ExplorerService) Preview(ctx context.Context, id string, n int) (inspect.TableView, error) {
	ctx, span := s.start(ctx, "preview", attribute.String("dataset.id", id))
	defer span.End()

	sess, err := s.session(id)
	if err != nil {
		return inspect.TableView{}, s.fail(ctx, "preview", err)
	}
	return inspect.Preview(sess.Table, s.previewRows(n)), nil
}

// Columns describes every column of the dataset.
func (s *ExplorerService) Columns(ctx context.Context, id string) ([]inspect.ColumnDescriptor, error) {
	ctx, span := s.start(ctx, "columns", attribute.String("dataset.id", id))
	defer span.End()

	sess, err := s.session(id)
	if err != nil {
		return nil, s.fail(ctx, "columns", err)
	}
	return inspect.Describe(sess.Table), nil
}

// UniqueValues lists the distinct values of one column.
func (s *ExplorerService) UniqueValues(ctx context.Context, id, column string) ([]dataset.Value, error) {
	ctx, span := s.start(ctx, "unique_values",
		attribute.String("dataset.id", id),
		attribute.String("dataset.column", column))
	defer span.End()

	sess, err := s.session(id)
	if err != nil {
		return nil, s.fail(ctx, "unique_values", err)
	}
	values, err := inspect.UniqueValues(sess.Table, column)
	if err != nil {
		return nil, s.fail(ctx, "unique_values", fmt.Errorf("%w: %w", ErrColumnNotFound, err))
	}
	return values, nil
}

// Summary returns descriptive statistics of the numeric columns.
func (s *ExplorerService) Summary(ctx context.Context, id string) ([]inspect.ColumnSummary, error) {
	ctx, span := s.start(ctx, "summary", attribute.String("dataset.id", id))
	defer span.End()

	sess, err := s.session(id)
	if err != nil {
		return nil, s.fail(ctx, "summary", err)
	}
	return inspect.Summary(sess.Table), nil
}

// Missing returns the null count of every column.
func (s *ExplorerService) Missing(ctx context.Context, id string) ([]inspect.MissingCount, error) {
	ctx, span := s.start(ctx, "missing", attribute.String("dataset.id", id))
	defer span.End()

	sess, err := s.session(id)
	if err != nil {
		return nil, s.fail(ctx, "missing", err)
	}
	return inspect.MissingCounts(sess.Table), nil
}

// Correlation returns the pairwise correlation of the numeric columns.
func (s *ExplorerService) Correlation(ctx context.Context, id string) (inspect.Matrix, error) {
	ctx, span := s.start(ctx, "correlation", attribute.String("dataset.id", id))
	defer span.End()

	sess, err := s.session(id)
	if err != nil {
		return inspect.Matrix{}, s.fail(ctx, "correlation", err)
	}
	m, err := inspect.Correlation(sess.Table)
	if err != nil {
		if errors.Is(err, inspect.ErrNoNumericColumns) {
			return inspect.Matrix{}, s.fail(ctx, "correlation", fmt.Errorf("%w: %w", ErrNoNumericData, err))
		}
		return inspect.Matrix{}, s.fail(ctx, "correlation", err)
	}
	return m, nil
}

// Filter keeps the rows matching spec and returns the first n of them with
// the total match count. No match is an empty result, not an error.
func (s *ExplorerService) Filter(ctx context.Context, id string, spec filter.Spec, n int) (FilterResult, error) {
	ctx, span := s.start(ctx, "filter",
		attribute.String("dataset.id", id),
		attribute.String("filter.column", spec.Column))
	defer span.End()

	filtered, err := s.filtered(id, spec)
	if err != nil {
		return FilterResult{}, s.fail(ctx, "filter", err)
	}
	span.SetAttributes(attribute.Int("filter.matches", filtered.NumRows()))

	s.logger.DebugContext(ctx, "dataset filtered",
		slog.String("dataset_id", id),
		slog.String("column", spec.Column),
		slog.Int("matches", filtered.NumRows()))
	return FilterResult{
		View:    inspect.Preview(filtered, s.previewRows(n)),
		Matches: filtered.NumRows(),
	}, nil
}

// FilterCSV writes every row matching spec to w as CSV using opts.
func (s *ExplorerService) FilterCSV(ctx context.Context, id string, spec filter.Spec, opts exporter.WriteOptions, w io.Writer) error {
	ctx, span := s.start(ctx, "filter_csv",
		attribute.String("dataset.id", id),
		attribute.String("filter.column", spec.Column),
		attribute.Bool("csv.bom", opts.BOMPrefix))
	defer span.End()

	filtered, err := s.filtered(id, spec)
	if err != nil {
		return s.fail(ctx, "filter_csv", err)
	}
	if err := exporter.WriteTable(w, filtered, opts); err != nil {
		return s.fail(ctx, "filter_csv", fmt.Errorf("write filtered csv: %w", err))
	}
	return nil
}

// Plot validates the request, renders it against the dataset, applies the
// label overrides and encodes a PNG. The drawing surface is always released.
func (s *ExplorerService) Plot(ctx context.Context, id string, req PlotRequest) (PlotImage, error) {
	ctx, span := s.start(ctx, "plot",
		attribute.String("dataset.id", id),
		attribute.String("plot.type", string(req.Type)),
		attribute.String("plot.x", req.X),
		attribute.String("plot.y", req.Y))
	defer span.End()

	start := time.Now()
	spec, err := plot.Validate(plot.Config{Type: req.Type, X: req.X, Y: req.Y})
	if err != nil {
		s.metrics.RecordPlotFailure(ctx, failureReason(err))
		return PlotImage{}, s.fail(ctx, "plot", fmt.Errorf("%w: %w", ErrInvalidPlot, err))
	}

	sess, err := s.session(id)
	if err != nil {
		return PlotImage{}, s.fail(ctx, "plot", err)
	}

	chart, err := plot.Render(sess.Table, spec, s.sizeOption(spec.Type(), req))
	if err != nil {
		s.metrics.RecordPlotFailure(ctx, failureReason(err))
		return PlotImage{}, s.fail(ctx, "plot", fmt.Errorf("%w: %w", ErrPlotFailed, err))
	}
	defer chart.Close()

	chart.Customize(req.Overrides)
	data, err := chart.Encode(plot.FormatPNG)
	if err != nil {
		s.metrics.RecordPlotFailure(ctx, failureReason(err))
		return PlotImage{}, s.fail(ctx, "plot", fmt.Errorf("%w: %w", ErrPlotFailed, err))
	}

	elapsed := time.Since(start)
	s.metrics.RecordPlotRendered(ctx, string(spec.Type()), elapsed)
	span.SetAttributes(attribute.Int("plot.bytes", len(data)))

	s.logger.InfoContext(ctx, "plot rendered",
		slog.String("dataset_id", id),
		slog.String("plot_type", string(spec.Type())),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", elapsed))
	return PlotImage{
		Data:        data,
		ContentType: plot.MIMETypePNG,
		Filename:    plot.DefaultFilename,
		Type:        spec.Type(),
		Labels:      chart.Labels(),
		Size:        chart.Size(),
	}, nil
}

func (s *ExplorerService) session(id string) (dataset.Session, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return dataset.Session{}, mapStoreErr(err)
	}
	return sess, nil
}

func (s *ExplorerService) filtered(id string, spec filter.Spec) (*dataset.Table, error) {
	if strings.TrimSpace(spec.Column) == "" {
		return nil, fmt.Errorf("%w: filter column is required", ErrInvalidInput)
	}
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	out, err := filter.Apply(sess.Table, spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrColumnNotFound, err)
	}
	return out, nil
}

func (s *ExplorerService) previewRows(n int) int {
	if n > 0 {
		return n
	}
	if s.render.PreviewRows > 0 {
		return s.render.PreviewRows
	}
	return 5
}

// sizeOption picks the surface size. Heatmaps keep their square default
// unless the request sizes them explicitly.
func (s *ExplorerService) sizeOption(t plot.PlotType, req PlotRequest) plot.Option {
	if req.Width > 0 && req.Height > 0 {
		return plot.WithSize(req.Width, req.Height)
	}
	if t == plot.Heatmap {
		return plot.WithSize(0, 0)
	}
	return plot.WithSize(s.render.Width, s.render.Height)
}

func mapStoreErr(err error) error {
	if errors.Is(err, dataset.ErrSessionNotFound) {
		return fmt.Errorf("%w: %w", ErrDatasetNotFound, err)
	}
	return err
}

// failureReason labels a plot failure for the failures counter.
func failureReason(err error) string {
	var renderErr *plot.RenderError
	switch {
	case errors.Is(err, plot.ErrMissingAxis):
		return "missing_axis"
	case errors.Is(err, plot.ErrUnknownPlotType):
		return "unknown_plot_type"
	case errors.As(err, &renderErr):
		return string(renderErr.Reason)
	case errors.Is(err, plot.ErrChartClosed):
		return "chart_closed"
	default:
		return "encode_failed"
	}
}

func datasetInfo(sess dataset.Session) DatasetInfo {
	format, _ := dataset.DetectFormat(sess.Name)
	numeric := make([]string, 0)
	for _, col := range sess.Table.NumericColumns() {
		numeric = append(numeric, col.Name)
	}
	return DatasetInfo{
		ID:             sess.ID,
		Name:           sess.Name,
		Format:         string(format),
		Rows:           sess.Table.NumRows(),
		Columns:        sess.Table.ColumnNames(),
		NumericColumns: numeric,
		CreatedAt:      sess.CreatedAt,
		LastAccess:     sess.LastAccess,
	}
}
