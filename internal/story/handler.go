package story

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"obesity-risk/internal/platform/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) GetStory(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.View())
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/story", h.GetStory)
}
