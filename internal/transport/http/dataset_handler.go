package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"dataviz/internal/dataset"
	"dataviz/internal/exporter"
	apierrors "dataviz/internal/errors"
	"dataviz/internal/filter"
	"dataviz/internal/middleware"
	api "dataviz/pkg/contracts/api/v1"
)

const (
	// UploadField is the multipart form field carrying the dataset file.
	UploadField = "file"
	// FilteredFilename is offered for filtered CSV downloads.
	FilteredFilename = "filtered.csv"

	maxPreviewRows = 1000
	// multipart overhead allowed on top of the file size limit
	uploadSlack = 1 << 20
	// parts above this size spill to temporary files
	uploadMemory = 8 << 20
)

// DatasetHandler serves dataset sessions: upload, inspection, filtering and
// plotting.
type DatasetHandler struct {
	service        ExplorerServiceInterface
	validator      *middleware.RequestValidator
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
}

// NewDatasetHandler creates a dataset handler. maxUploadBytes bounds the
// multipart request body; zero leaves it unbounded.
func NewDatasetHandler(service ExplorerServiceInterface, validator *middleware.RequestValidator, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		service:        service,
		validator:      validator,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the dataset routes, to be mounted at /api/datasets
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Upload)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetDataset)
		r.Delete("/", h.DeleteDataset)

		r.Get("/preview", h.Preview)
		r.Get("/columns", h.Columns)
		r.Get("/columns/{column}/values", h.UniqueValues)
		r.Get("/summary", h.Summary)
		r.Get("/missing", h.Missing)
		r.Get("/correlation", h.Correlation)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeValidator("application/json"))

			r.Post("/filter", h.Filter)
			r.Post("/filter/export", h.ExportFilter)
			r.Post("/plots", h.RenderPlot)
		})
	})

	return r
}

// Upload handles POST /api/datasets
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+uploadSlack)
	}
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		if _, ok := asMaxBytes(err); ok {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.MissingParameter(UploadField))
		return
	}
	defer file.Close()

	info, err := h.service.Upload(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset uploaded",
		slog.String("dataset_id", info.ID),
		slog.String("file_name", header.Filename),
		slog.Int64("size", header.Size))

	w.Header().Set("Location", r.URL.Path+"/"+info.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, api.Success(info))
}

// GetDataset handles GET /api/datasets/{id}
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Dataset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Success(info))
}

// DeleteDataset handles DELETE /api/datasets/{id}
func (h *DatasetHandler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// Preview handles GET /api/datasets/{id}/preview?rows=n
func (h *DatasetHandler) Preview(w http.ResponseWriter, r *http.Request) {
	rows, err := middleware.QueryInt(r, "rows", 1, maxPreviewRows, 0)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Preview(r.Context(), chi.URLParam(r, "id"), rows)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Success(view))
}

// Columns handles GET /api/datasets/{id}/columns
func (h *DatasetHandler) Columns(w http.ResponseWriter, r *http.Request) {
	cols, err := h.service.Columns(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.SuccessList(cols, len(cols)))
}

// UniqueValues handles GET /api/datasets/{id}/columns/{column}/values
func (h *DatasetHandler) UniqueValues(w http.ResponseWriter, r *http.Request) {
	column, err := url.PathUnescape(chi.URLParam(r, "column"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("column", "must be a valid path segment"))
		return
	}

	values, err := h.service.UniqueValues(r.Context(), chi.URLParam(r, "id"), column)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.SuccessList(values, len(values)))
}

// Summary handles GET /api/datasets/{id}/summary
func (h *DatasetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.SuccessList(summary, len(summary)))
}

// Missing handles GET /api/datasets/{id}/missing
func (h *DatasetHandler) Missing(w http.ResponseWriter, r *http.Request) {
	missing, err := h.service.Missing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.SuccessList(missing, len(missing)))
}

// Correlation handles GET /api/datasets/{id}/correlation
func (h *DatasetHandler) Correlation(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.service.Correlation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Success(matrix))
}

// Filter handles POST /api/datasets/{id}/filter
func (h *DatasetHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var req api.FilterRequest
	if err := h.validator.DecodeJSON(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Filter(r.Context(), chi.URLParam(r, "id"), filterSpec(req), req.Rows)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.SuccessList(result, result.Matches))
}

// ExportFilter handles POST /api/datasets/{id}/filter/export. The CSV is
// buffered so a failure can still be reported as a problem response.
// ?bom=true prefixes a UTF-8 byte order mark for Excel.
func (h *DatasetHandler) ExportFilter(w http.ResponseWriter, r *http.Request) {
	var req api.FilterRequest
	if err := h.validator.DecodeJSON(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	opts := exporter.WriteOptions{BOMPrefix: r.URL.Query().Get("bom") == "true"}
	var buf bytes.Buffer
	if err := h.service.FilterCSV(r.Context(), chi.URLParam(r, "id"), filterSpec(req), opts, &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	writeAttachment(w, "text/csv; charset=utf-8", FilteredFilename, buf.Bytes())
}

func filterSpec(req api.FilterRequest) filter.Spec {
	return filter.Spec{Column: req.Column, Value: dataset.ValueOf(req.Value)}
}
