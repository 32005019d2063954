package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"

	"obesity-risk/internal/assessment"
)

var (
	ErrFontUnavailable  = errors.New("no usable TTF font for the PDF report")
	ErrDeliveryDisabled = errors.New("report delivery is not configured")
)

// Sender delivers text and files to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName, caption string) error
}

// DejaVuSans covers the Portuguese accents; these are the usual install
// locations on Alpine and Debian images.
var defaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

type Service struct {
	sender       Sender
	doctorChatID int64
	fontPaths    []string
	logger       zerolog.Logger
}

// NewService builds the report service. fontPath, when set, is tried before
// the default locations. A nil sender or zero chat disables delivery.
func NewService(sender Sender, doctorChatID int64, fontPath string, logger zerolog.Logger) *Service {
	paths := defaultFontPaths
	if fontPath != "" {
		paths = append([]string{fontPath}, defaultFontPaths...)
	}
	return &Service{
		sender:       sender,
		doctorChatID: doctorChatID,
		fontPaths:    paths,
		logger:       logger,
	}
}

// DeliveryEnabled reports whether SendToDoctor can succeed.
func (s *Service) DeliveryEnabled() bool {
	return s.sender != nil && s.doctorChatID != 0
}

func (s *Service) loadFont(pdf *gopdf.GoPdf) error {
	var lastErr error
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err != nil {
			lastErr = err
			continue
		}
		s.logger.Debug().Str("path", path).Msg("report font loaded")
		return nil
	}
	return fmt.Errorf("%w: last error: %v", ErrFontUnavailable, lastErr)
}

// Render produces the PDF for one assessment.
func (s *Service) Render(ctx context.Context, a *assessment.Assessment) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.SetMargins(40, 40, 40, 40)
	pdf.AddPage()

	if err := s.loadFont(pdf); err != nil {
		return nil, err
	}

	w := &writer{pdf: pdf}
	w.text(18, "Relatório de Avaliação de Risco de Obesidade")
	w.br(28)

	w.text(10, fmt.Sprintf("Data: %s", a.CreatedAt.Format("02.01.2006 15:04")))
	w.br(14)
	w.text(10, fmt.Sprintf("ID da predição: %s", a.ID))
	w.br(24)

	w.text(14, "Resultado do modelo")
	w.br(18)
	w.text(12, fmt.Sprintf("Categoria prevista: %s", a.Category))
	w.br(15)
	w.text(12, fmt.Sprintf("Nível de risco: %s", bandLabel(a.RiskBand)))
	w.br(24)

	w.text(14, "Verificação pelo IMC")
	w.br(18)
	w.text(12, fmt.Sprintf("IMC: %.2f (%s)", a.BMI, a.BMICategory))
	w.br(15)
	if a.BMIAgrees() {
		w.text(11, "A classificação pelo IMC concorda com a previsão do modelo.")
	} else {
		w.wrapped(11, "A classificação pelo IMC difere da previsão do modelo. "+
			"O modelo considera também os hábitos informados; avalie o paciente com atenção.")
	}
	w.br(24)

	w.text(14, "Índices comportamentais")
	w.br(18)
	w.text(12, fmt.Sprintf("Índice de estilo de vida: %d (quanto maior, melhor)", a.LifestyleIndex))
	w.br(15)
	w.text(12, fmt.Sprintf("Índice de risco alimentar: %d (quanto maior, pior)", a.DietaryRiskIndex))
	w.br(24)

	w.text(14, "Respostas do formulário")
	w.br(18)
	for _, ans := range a.Inputs.Answers() {
		w.wrapped(10, fmt.Sprintf("- %s: %s", ans.Label, ans.Value))
		w.br(2)
	}
	w.br(20)

	w.wrapped(9, "Ferramenta de apoio à decisão clínica. Não substitui a avaliação de um profissional de saúde.")

	if w.err != nil {
		return nil, fmt.Errorf("failed to lay out PDF: %w", w.err)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// SendToDoctor delivers a rendered report to the configured doctor chat.
func (s *Service) SendToDoctor(ctx context.Context, a *assessment.Assessment, pdf []byte) error {
	if !s.DeliveryEnabled() {
		return ErrDeliveryDisabled
	}

	fileName := fmt.Sprintf("relatorio_%s.pdf", a.ID)
	caption := fmt.Sprintf("Nova avaliação: %s (risco %s)", a.Category, bandLabel(a.RiskBand))
	if err := s.sender.SendDocument(ctx, s.doctorChatID, pdf, fileName, caption); err != nil {
		return err
	}
	s.logger.Info().Str("prediction_id", a.ID.String()).Int64("chat_id", s.doctorChatID).Msg("report sent to doctor")

	if a.RiskBand != assessment.RiskHigh {
		return nil
	}
	if err := s.sender.SendMessage(ctx, s.doctorChatID, highRiskAlert(a)); err != nil {
		return fmt.Errorf("send high risk alert: %w", err)
	}
	return nil
}

// highRiskAlert is sent after the report when the prediction bands High.
func highRiskAlert(a *assessment.Assessment) string {
	return fmt.Sprintf("Alerta: risco ALTO (%s) na avaliação %s. IMC %.2f (%s). Relatório em anexo acima.",
		a.Category, a.ID, a.BMI, a.BMICategory)
}

func bandLabel(b assessment.RiskBand) string {
	switch b {
	case assessment.RiskHigh:
		return "Alto"
	case assessment.RiskModerate:
		return "Moderado"
	case assessment.RiskLow:
		return "Baixo"
	default:
		return string(b)
	}
}

// writer keeps the first layout error so Render reads top to bottom.
type writer struct {
	pdf *gopdf.GoPdf
	err error
}

const textWidth = 515

func (w *writer) text(size float64, s string) {
	if w.err != nil {
		return
	}
	if w.err = w.pdf.SetFont("DejaVu", "", size); w.err != nil {
		return
	}
	w.err = w.pdf.Cell(nil, s)
}

func (w *writer) wrapped(size float64, s string) {
	if w.err != nil {
		return
	}
	if w.err = w.pdf.SetFont("DejaVu", "", size); w.err != nil {
		return
	}
	lines, err := w.pdf.SplitText(s, textWidth)
	if err != nil {
		w.err = err
		return
	}
	for _, l := range lines {
		if w.err = w.pdf.Cell(nil, l); w.err != nil {
			return
		}
		w.pdf.Br(size + 3)
	}
}

func (w *writer) br(h float64) {
	if w.err == nil {
		w.pdf.Br(h)
	}
}
