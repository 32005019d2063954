package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"obesity-risk/internal/assessment"
	"obesity-risk/internal/platform/metrics"
)

var _ assessment.Observer = (*metrics.Metrics)(nil)

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.SetModelLoaded(true)
	m.PredictionMade("Sobrepeso", "moderate")
	m.PredictionMade("Sobrepeso", "moderate")
	m.PredictionFailed("lookup")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `obesity_predictions_total{band="moderate",category="Sobrepeso"} 2`)
	assert.Contains(t, body, `obesity_prediction_errors_total{kind="lookup"} 1`)
	assert.Contains(t, body, "obesity_model_loaded 1")
}

func TestMetrics_ModelNotLoaded(t *testing.T) {
	m := metrics.New()
	m.SetModelLoaded(false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, rec.Body.String(), "obesity_model_loaded 0")
}
