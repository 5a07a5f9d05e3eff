package http

import (
	"context"
	"io"

	"dataviz/internal/dataset"
	"dataviz/internal/exporter"
	"dataviz/internal/filter"
	"dataviz/internal/inspect"
	"dataviz/internal/services"
)

// ExplorerServiceInterface defines the dataset and plot operations served
// over HTTP
type ExplorerServiceInterface interface {
	Upload(ctx context.Context, name string, size int64, r io.Reader) (services.DatasetInfo, error)
	Dataset(ctx context.Context, id string) (services.DatasetInfo, error)
	Close(ctx context.Context, id string) error

	Preview(ctx context.Context, id string, n int) (inspect.TableView, error)
	Columns(ctx context.Context, id string) ([]inspect.ColumnDescriptor, error)
	UniqueValues(ctx context.Context, id, column string) ([]dataset.Value, error)
	Summary(ctx context.Context, id string) ([]inspect.ColumnSummary, error)
	Missing(ctx context.Context, id string) ([]inspect.MissingCount, error)
	Correlation(ctx context.Context, id string) (inspect.Matrix, error)

	Filter(ctx context.Context, id string, spec filter.Spec, n int) (services.FilterResult, error)
	FilterCSV(ctx context.Context, id string, spec filter.Spec, opts exporter.WriteOptions, w io.Writer) error

	Plot(ctx context.Context, id string, req services.PlotRequest) (services.PlotImage, error)
}

// HealthServiceInterface defines the health probes
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
