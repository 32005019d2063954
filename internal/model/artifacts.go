package model

import (
	"fmt"
	"sort"
	"time"

	"obesity-risk/internal/assessment"
)

// Paths locates the model artifacts.
type Paths struct {
	ModelPath        string
	LabelEncoderPath string
	// ServerURL, when set, replaces the local pipeline with a model server.
	ServerURL string
	Timeout   time.Duration
}

// Artifacts is the loaded classifier/decoder pair.
type Artifacts struct {
	Classifier assessment.Classifier
	Decoder    *LabelEncoder
	// Pipeline is nil when a model server is used.
	Pipeline *Pipeline
}

// LoadArtifacts loads everything needed for prediction. It is meant to run
// once at startup; callers turn an error into an unavailable service.
func LoadArtifacts(p Paths) (*Artifacts, error) {
	le, err := LoadLabelEncoder(p.LabelEncoderPath)
	if err != nil {
		return nil, err
	}

	if p.ServerURL != "" {
		return &Artifacts{
			Classifier: NewHTTPClassifier(p.ServerURL, p.Timeout),
			Decoder:    le,
		}, nil
	}

	pipeline, err := LoadPipeline(p.ModelPath)
	if err != nil {
		return nil, err
	}
	if n := len(pipeline.Classes); n != len(le.ClassNames) {
		return nil, fmt.Errorf("model has %d classes, label encoder has %d", n, len(le.ClassNames))
	}
	return &Artifacts{Classifier: pipeline, Decoder: le, Pipeline: pipeline}, nil
}

// SchemaMismatch compares the pipeline's expected columns with the encoder's
// output and describes every difference. An empty result means they agree.
func SchemaMismatch(expected []string) []string {
	var diffs []string
	have := assessment.FeatureColumns
	if len(expected) != len(have) {
		diffs = append(diffs, fmt.Sprintf("model expects %d columns, encoder produces %d", len(expected), len(have)))
	}
	inEncoder := make(map[string]int, len(have))
	for i, c := range have {
		inEncoder[c] = i
	}
	for i, c := range expected {
		j, ok := inEncoder[c]
		switch {
		case !ok:
			diffs = append(diffs, fmt.Sprintf("column %q is not produced by the encoder", c))
		case i != j:
			diffs = append(diffs, fmt.Sprintf("column %q at position %d, encoder has it at %d", c, i+1, j+1))
		}
		delete(inEncoder, c)
	}
	extra := make([]string, 0, len(inEncoder))
	for c := range inEncoder {
		extra = append(extra, c)
	}
	sort.Strings(extra)
	for _, c := range extra {
		diffs = append(diffs, fmt.Sprintf("encoder column %q is unknown to the model", c))
	}
	return diffs
}
