package performance

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"obesity-risk/internal/platform/asset"
	"obesity-risk/internal/platform/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Build())
}

// GetFigure serves only the published figure names.
func (h *Handler) GetFigure(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !IsFigure(name) {
		respond.Error(w, http.StatusNotFound, "Figura desconhecida", nil)
		return
	}
	path := h.svc.Path(name)
	if err := asset.Stat(name, path); err != nil {
		respond.Error(w, http.StatusNotFound, "Figura não encontrada", nil)
		return
	}
	http.ServeFile(w, r, path)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/performance", h.GetReport)
	r.Get("/performance/figures/{name}", h.GetFigure)
}
