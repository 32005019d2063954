package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"obesity-risk/internal/platform/respond"
)

// ReportService renders an assessment as a PDF and delivers it to the doctor.
type ReportService interface {
	Render(ctx context.Context, a *Assessment) ([]byte, error)
	SendToDoctor(ctx context.Context, a *Assessment, pdf []byte) error
}

// Message shown when the model artifacts could not be loaded.
const modelUnavailableMessage = "O modelo preditivo não está disponível no momento. " +
	"Verifique se os artefatos do modelo foram gerados e reinicie o serviço."

type Handler struct {
	svc     *Service
	reports ReportService
	logger  zerolog.Logger
}

func NewHandler(svc *Service, reports ReportService, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, reports: reports, logger: logger}
}

type formResponse struct {
	Form
	ModelAvailable bool     `json:"model_available"`
	Classes        []string `json:"classes,omitempty"`
}

func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, formResponse{
		Form:           FormDefinition(),
		ModelAvailable: h.svc.Available(),
		Classes:        h.svc.Classes(),
	})
}

type predictResponse struct {
	*Assessment
	BMIAgrees bool `json:"bmi_agrees"`
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	a, ok := h.assess(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, predictResponse{Assessment: a, BMIAgrees: a.BMIAgrees()})
}

// PredictReport answers with the PDF report. With ?notify=true the report is
// also sent to the doctor chat.
func (h *Handler) PredictReport(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		respond.Error(w, http.StatusNotImplemented, "Relatório em PDF não configurado", nil)
		return
	}
	a, ok := h.assess(w, r)
	if !ok {
		return
	}

	pdf, err := h.reports.Render(r.Context(), a)
	if err != nil {
		h.logger.Error().Err(err).Str("prediction_id", a.ID.String()).Msg("render report")
		respond.Error(w, http.StatusInternalServerError, "Falha ao gerar o relatório", err)
		return
	}

	if notify, _ := strconv.ParseBool(r.URL.Query().Get("notify")); notify {
		if err := h.reports.SendToDoctor(r.Context(), a, pdf); err != nil {
			// Delivery is best effort; the caller still gets the PDF.
			h.logger.Warn().Err(err).Str("prediction_id", a.ID.String()).Msg("send report to doctor")
			w.Header().Set("X-Report-Delivery", "failed")
		} else {
			w.Header().Set("X-Report-Delivery", "sent")
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"relatorio_%s.pdf\"", a.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) assess(w http.ResponseWriter, r *http.Request) (*Assessment, bool) {
	var in PatientInputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "Requisição inválida", err)
		return nil, false
	}

	a, err := h.svc.Assess(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return a, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var lookupErr *LookupError
	switch {
	case errors.Is(err, ErrModelUnavailable):
		h.logger.Error().Err(err).Msg("prediction refused")
		respond.Error(w, http.StatusServiceUnavailable, modelUnavailableMessage, err)
	case errors.As(err, &lookupErr):
		h.logger.Error().Err(err).Str("field", lookupErr.Field).Msg("form sent an unknown label")
		respond.Error(w, http.StatusBadRequest, "Resposta não reconhecida para "+lookupErr.Field, err)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(w, http.StatusUnprocessableEntity, "Valor fora do intervalo permitido", err)
	default:
		h.logger.Error().Err(err).Msg("prediction failed")
		respond.Error(w, http.StatusInternalServerError, "Falha ao calcular a predição", err)
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/form", h.GetForm)
	r.Post("/predict", h.Predict)
	r.Post("/predict/report", h.PredictReport)
}
