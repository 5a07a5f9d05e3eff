package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"dataviz/internal/plot"
	"dataviz/internal/services"
	api "dataviz/pkg/contracts/api/v1"
)

// RenderPlot handles POST /api/datasets/{id}/plots. The chart is returned as
// a PNG attachment.
func (h *DatasetHandler) RenderPlot(w http.ResponseWriter, r *http.Request) {
	var req api.PlotRequest
	if err := h.validator.DecodeJSON(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	img, err := h.service.Plot(r.Context(), chi.URLParam(r, "id"), services.PlotRequest{
		Type: plot.PlotType(req.Type),
		X:    req.X,
		Y:    req.Y,
		Overrides: plot.Overrides{
			XLabel: req.XLabel,
			YLabel: req.YLabel,
			Title:  req.Title,
		},
		Width:  req.Width,
		Height: req.Height,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "plot served",
		slog.String("plot_type", string(img.Type)),
		slog.Int("bytes", len(img.Data)))
	writeAttachment(w, img.ContentType, img.Filename, img.Data)
}

// PlotTypes handles GET /api/plot-types. Types are listed in menu order.
func PlotTypes(w http.ResponseWriter, r *http.Request) {
	types := plot.Types()
	out := make([]api.PlotTypeInfo, 0, len(types))
	for _, t := range types {
		out = append(out, api.PlotTypeInfo{Name: string(t), RequiresY: t.RequiresY()})
	}
	render.JSON(w, r, api.SuccessList(out, len(out)))
}
