package snapshot

import (
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"obesity-risk/internal/dataset"
	"obesity-risk/internal/platform/asset"
	"obesity-risk/internal/platform/respond"
)

// maxUpload caps CSV bodies sent to POST /snapshots.
const maxUpload = 32 << 20

type Handler struct {
	svc         *Service
	datasetPath string
	logger      zerolog.Logger
}

// NewHandler saves uploaded CSV bodies, or the file at datasetPath when the
// request carries none.
func NewHandler(svc *Service, datasetPath string, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, datasetPath: datasetPath, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list snapshots")
		respond.Error(w, http.StatusInternalServerError, "Falha ao listar versões", err)
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		t      *dataset.Table
		source string
		err    error
	)
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "text/csv" {
		source = "upload"
		t, err = dataset.Read(http.MaxBytesReader(w, r.Body, maxUpload))
	} else {
		source = h.datasetPath
		t, err = dataset.Load(h.datasetPath)
	}
	if err != nil {
		if errors.Is(err, asset.ErrMissingAsset) {
			h.logger.Warn().Err(err).Msg("snapshot source missing")
			respond.Error(w, http.StatusNotFound, "Arquivo de dados não encontrado", nil)
			return
		}
		respond.Error(w, http.StatusBadRequest, "CSV inválido", err)
		return
	}

	snap, err := h.svc.Save(r.Context(), t, source)
	if err != nil {
		if errors.Is(err, ErrEmptyDataset) {
			respond.Error(w, http.StatusBadRequest, "CSV sem colunas", err)
			return
		}
		h.logger.Error().Err(err).Str("source", source).Msg("save snapshot")
		respond.Error(w, http.StatusInternalServerError, "Falha ao salvar a versão", err)
		return
	}
	respond.JSON(w, http.StatusCreated, snap)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/snapshots", h.List)
	r.Post("/snapshots", h.Create)
}
