package report_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obesity-risk/internal/assessment"
	"obesity-risk/internal/report"
)

type fakeSender struct {
	chatID   int64
	data     []byte
	fileName string
	caption  string
	err      error

	messages []string
	msgErr   error
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	f.chatID = chatID
	f.messages = append(f.messages, text)
	return f.msgErr
}

func (f *fakeSender) SendDocument(_ context.Context, chatID int64, data []byte, fileName, caption string) error {
	f.chatID, f.data, f.fileName, f.caption = chatID, data, fileName, caption
	return f.err
}

func sampleAssessment() *assessment.Assessment {
	return &assessment.Assessment{
		Prediction: assessment.Prediction{
			ID:       uuid.MustParse("8f14e45f-ceea-467f-a0e6-2b6b3b1c1a11"),
			Category: assessment.CategoryOverweight,
			RiskBand: assessment.RiskModerate,
		},
		BMI:              24.22,
		BMICategory:      assessment.CategoryNormal,
		LifestyleIndex:   6,
		DietaryRiskIndex: 3,
		Inputs: assessment.PatientInputs{
			Age: 30, WeightKg: 70, HeightM: 1.70,
			Gender: "Feminino", Transport: "Caminhada",
		},
		CreatedAt: time.Date(2025, 3, 7, 9, 5, 0, 0, time.UTC),
	}
}

func firstFont() string {
	for _, p := range []string{
		"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func TestRender(t *testing.T) {
	svc := report.NewService(nil, 0, "", zerolog.Nop())

	pdf, err := svc.Render(context.Background(), sampleAssessment())
	if firstFont() == "" {
		assert.ErrorIs(t, err, report.ErrFontUnavailable)
		return
	}
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestRender_BadFontPathFallsBack(t *testing.T) {
	svc := report.NewService(nil, 0, "/nonexistent/font.ttf", zerolog.Nop())

	_, err := svc.Render(context.Background(), sampleAssessment())
	if firstFont() == "" {
		assert.ErrorIs(t, err, report.ErrFontUnavailable)
		return
	}
	assert.NoError(t, err)
}

func TestRender_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := report.NewService(nil, 0, "", zerolog.Nop()).Render(ctx, sampleAssessment())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSendToDoctor(t *testing.T) {
	sender := &fakeSender{}
	svc := report.NewService(sender, 42, "", zerolog.Nop())
	a := sampleAssessment()

	require.NoError(t, svc.SendToDoctor(context.Background(), a, []byte("%PDF")))
	assert.Equal(t, int64(42), sender.chatID)
	assert.Equal(t, "relatorio_8f14e45f-ceea-467f-a0e6-2b6b3b1c1a11.pdf", sender.fileName)
	assert.Contains(t, sender.caption, "Sobrepeso")
	assert.Contains(t, sender.caption, "Moderado")
	assert.Empty(t, sender.messages, "moderate risk sends no alert")

	sender.err = errors.New("telegram down")
	assert.ErrorContains(t, svc.SendToDoctor(context.Background(), a, nil), "telegram down")
}

func TestSendToDoctor_Disabled(t *testing.T) {
	tests := []struct {
		name   string
		sender report.Sender
		chatID int64
	}{
		{"no sender", nil, 42},
		{"no chat", &fakeSender{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := report.NewService(tt.sender, tt.chatID, "", zerolog.Nop())
			assert.False(t, svc.DeliveryEnabled())
			assert.ErrorIs(t, svc.SendToDoctor(context.Background(), sampleAssessment(), nil), report.ErrDeliveryDisabled)
		})
	}
}

func TestSendToDoctor_HighRiskAlert(t *testing.T) {
	sender := &fakeSender{}
	svc := report.NewService(sender, 42, "", zerolog.Nop())
	a := sampleAssessment()
	a.Category = assessment.CategoryObesityII
	a.RiskBand = assessment.RiskHigh

	require.NoError(t, svc.SendToDoctor(context.Background(), a, []byte("%PDF")))
	assert.Equal(t, "relatorio_8f14e45f-ceea-467f-a0e6-2b6b3b1c1a11.pdf", sender.fileName)
	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "ALTO")
	assert.Contains(t, sender.messages[0], "Obesidade Grau II")
	assert.Contains(t, sender.messages[0], a.ID.String())

	sender.messages = nil
	sender.msgErr = errors.New("rate limited")
	err := svc.SendToDoctor(context.Background(), a, []byte("%PDF"))
	assert.ErrorContains(t, err, "rate limited")

	// the document is not followed by an alert when its own upload fails
	sender.messages = nil
	sender.err = errors.New("telegram down")
	assert.Error(t, svc.SendToDoctor(context.Background(), a, nil))
	assert.Empty(t, sender.messages)
}
