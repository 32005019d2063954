package story

import (
	"sync"

	"github.com/rs/zerolog"

	"obesity-risk/internal/dataset"
	"obesity-risk/internal/platform/asset"
)

const datasetMissingMessage = "Arquivo 'obesity_gold.csv' não encontrado em data/processed/."

// Service computes the view once per process; the dataset is read-only.
type Service struct {
	view func() View
}

func NewService(path string, logger zerolog.Logger) *Service {
	return &Service{
		view: sync.OnceValue(func() View {
			t, err := dataset.Load(path)
			if err != nil {
				return unavailable(path, err, logger)
			}
			logger.Info().Str("path", path).Int("rows", t.Len()).Msg("story dataset loaded")
			return Compute(t)
		}),
	}
}

func (s *Service) View() View {
	return s.view()
}

// unavailable renders an empty view carrying the load failure as a warning.
func unavailable(path string, err error, logger zerolog.Logger) View {
	v := View{Title: "Visão Analítica - Nível Obesidade"}
	if w, ok := asset.WarningFor("dataset", datasetMissingMessage, err); ok {
		logger.Warn().Err(err).Str("path", path).Msg("story dataset missing")
		v.Warnings = append(v.Warnings, w)
		return v
	}
	logger.Error().Err(err).Str("path", path).Msg("story dataset unreadable")
	v.Warnings = append(v.Warnings, asset.Warning{Asset: "dataset", Message: "Erro ao carregar dados: " + err.Error()})
	return v
}
