package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Classifier is the trained pipeline: one class code per row.
type Classifier interface {
	Predict(ctx context.Context, rows []EncodedRow) ([]int, error)
}

// LabelDecoder turns class codes back into category names.
type LabelDecoder interface {
	Decode(codes []int) ([]string, error)
	Classes() []string
}

// Observer is notified of prediction outcomes (metrics).
type Observer interface {
	PredictionMade(category, band string)
	PredictionFailed(kind string)
}

type nopObserver struct{}

func (nopObserver) PredictionMade(string, string) {}
func (nopObserver) PredictionFailed(string) {}

// Option configures a Service.
type Option func(*Service)

// WithLoadError marks the service unavailable because artifact loading failed.
func WithLoadError(err error) Option {
	return func(s *Service) { s.loadErr = err }
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service applies the classifier and decoder to encoded rows. It is built
// once at startup and never mutated, so handlers share it freely.
type Service struct {
	classifier Classifier
	decoder    LabelDecoder
	loadErr    error
	observer   Observer
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService wraps already loaded artifacts. A nil classifier or decoder
// yields a service that refuses every prediction with ErrModelUnavailable.
func NewService(classifier Classifier, decoder LabelDecoder, opts ...Option) *Service {
	s := &Service{
		classifier: classifier,
		decoder:    decoder,
		observer:   nopObserver{},
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether predictions can be served.
func (s *Service) Available() bool {
	return s.ready() == nil
}

// Classes returns the decoder's category names, or nil when unavailable.
func (s *Service) Classes() []string {
	if !s.Available() {
		return nil
	}
	return s.decoder.Classes()
}

func (s *Service) ready() error {
	switch {
	case s.loadErr != nil:
		return fmt.Errorf("%w: %v", ErrModelUnavailable, s.loadErr)
	case s.classifier == nil:
		return fmt.Errorf("%w: classifier not loaded", ErrModelUnavailable)
	case s.decoder == nil:
		return fmt.Errorf("%w: label decoder not loaded", ErrModelUnavailable)
	}
	return nil
}

// Predict runs the classifier on one row and decodes the class.
func (s *Service) Predict(ctx context.Context, row EncodedRow) (Prediction, error) {
	if err := s.ready(); err != nil {
		s.observer.PredictionFailed(failureKind(err))
		return Prediction{}, err
	}

	codes, err := s.classifier.Predict(ctx, []EncodedRow{row})
	if err != nil {
		s.observer.PredictionFailed(failureKind(err))
		return Prediction{}, fmt.Errorf("classifier predict: %w", err)
	}
	if len(codes) != 1 {
		s.observer.PredictionFailed("decode")
		return Prediction{}, fmt.Errorf("classifier returned %d codes for 1 row", len(codes))
	}

	names, err := s.decoder.Decode(codes)
	if err != nil {
		s.observer.PredictionFailed("decode")
		return Prediction{}, fmt.Errorf("decode class %d: %w", codes[0], err)
	}
	if len(names) != 1 {
		s.observer.PredictionFailed("decode")
		return Prediction{}, fmt.Errorf("decoder returned %d names for 1 code", len(names))
	}
	category, err := ParseCategory(names[0])
	if err != nil {
		s.observer.PredictionFailed("decode")
		return Prediction{}, err
	}

	p := Prediction{
		ID:       uuid.New(),
		Category: category,
		RiskBand: RiskBandFor(category),
	}
	s.observer.PredictionMade(string(p.Category), string(p.RiskBand))
	return p, nil
}

// Assess runs the whole flow for one submission: bounds check, encoding,
// prediction and the BMI cross-check. Nothing is computed when the model is
// unavailable.
func (s *Service) Assess(ctx context.Context, in PatientInputs) (*Assessment, error) {
	if err := s.ready(); err != nil {
		s.observer.PredictionFailed(failureKind(err))
		return nil, err
	}
	if err := Validate(in); err != nil {
		s.observer.PredictionFailed(failureKind(err))
		return nil, err
	}

	row, err := Encode(in)
	if err != nil {
		s.observer.PredictionFailed(failureKind(err))
		return nil, fmt.Errorf("encode inputs: %w", err)
	}

	prediction, err := s.Predict(ctx, row)
	if err != nil {
		return nil, err
	}

	bmi, bmiCategory, err := ClassifyBMI(in.WeightKg, in.HeightM)
	if err != nil {
		return nil, err
	}

	a := &Assessment{
		Prediction:       prediction,
		BMI:              bmi,
		BMICategory:      bmiCategory,
		LifestyleIndex:   row.LifestyleIndex,
		DietaryRiskIndex: row.DietaryRiskIndex,
		Inputs:           in,
		Row:              row,
		CreatedAt:        s.now(),
	}

	s.logger.Info().
		Str("prediction_id", a.ID.String()).
		Str("category", string(a.Category)).
		Str("risk_band", string(a.RiskBand)).
		Str("bmi_category", string(a.BMICategory)).
		Bool("bmi_agrees", a.BMIAgrees()).
		Msg("assessment completed")

	return a, nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, ErrLookup):
		return "lookup"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "classifier"
	}
}
