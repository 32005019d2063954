package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"obesity-risk/internal/assessment"
)

// HTTPClassifier delegates prediction to a model server that hosts the
// original pipeline. Transport failures and 5xx answers are reported as
// assessment.ErrModelUnavailable.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPClassifier(endpoint string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClassifier{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type predictRequest struct {
	Columns []string                `json:"columns"`
	Rows    []assessment.EncodedRow `json:"rows"`
}

type predictResponse struct {
	Predictions []int `json:"predictions"`
}

// Predict implements assessment.Classifier.
func (c *HTTPClassifier) Predict(ctx context.Context, rows []assessment.EncodedRow) ([]int, error) {
	body, err := json.Marshal(predictRequest{Columns: assessment.FeatureColumns, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/predict", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: model server request failed: %v", assessment.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: model server returned %s: %s", assessment.ErrModelUnavailable, resp.Status, msg)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("model server returned %s: %s", resp.Status, msg)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	if len(out.Predictions) != len(rows) {
		return nil, fmt.Errorf("model server returned %d predictions for %d rows", len(out.Predictions), len(rows))
	}
	return out.Predictions, nil
}
