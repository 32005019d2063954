// Package performance serves the model performance view: the final test-set
// metrics, the diagnosis written for clinicians and the validation figures
// produced by the training scripts.
package performance

import (
	"path/filepath"

	"obesity-risk/internal/platform/asset"
)

// RequiredAccuracy is the project's acceptance threshold on the test set.
const RequiredAccuracy = 0.75

// Metrics are the final test-set scores (20% hold-out).
type Metrics struct {
	Accuracy         float64 `json:"accuracy"`
	WeightedF1       float64 `json:"weighted_f1"`
	MacroF1          float64 `json:"macro_f1"`
	MeetsRequirement bool    `json:"meets_requirement"`
}

// FinalMetrics are the numbers reported by train_model for the shipped model.
var FinalMetrics = Metrics{
	Accuracy:   0.7825,
	WeightedF1: 0.78,
	MacroF1:    0.79,
}

// Section is a titled block of narrative.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Figure is a pre-rendered chart. URL is empty when the file is missing.
type Figure struct {
	Name      string `json:"name"`
	Caption   string `json:"caption"`
	URL       string `json:"url,omitempty"`
	Available bool   `json:"available"`

	missing string
}

var figures = []Figure{
	{
		Name:    "matriz_confusao_final.png",
		Caption: "Matriz de Confusão (Desempenho no Teste Final)",
		missing: "Imagem da Matriz de Confusão não encontrada",
	},
	{
		Name:    "classification_report_final.png",
		Caption: "Relatório de Classificação (Heatmap)",
		missing: "Imagem do Relatório de Classificação não encontrada",
	},
	{
		Name:    "shap_summary_bar.png",
		Caption: "Importância Global das Features (SHAP)",
		missing: "Gráfico SHAP não encontrado. Execute generate_shap.py primeiro",
	},
}

// IsFigure reports whether name is one of the published figures.
func IsFigure(name string) bool {
	for _, f := range figures {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Report is the whole performance view.
type Report struct {
	Title          string          `json:"title"`
	Summary        string          `json:"summary"`
	Metrics        Metrics         `json:"metrics"`
	Diagnosis      []Section       `json:"diagnosis"`
	Figures        []Figure        `json:"figures"`
	Interpretation []Section       `json:"interpretation,omitempty"`
	Warnings       []asset.Warning `json:"warnings,omitempty"`
}

var diagnosis = []Section{
	{
		Title: "Onde podemos confiar no modelo (Alta Confiança)",
		Body: "O modelo é extremamente confiável para identificar os casos mais críticos. " +
			"Quando o modelo prevê Obesidade Grau III, ele está correto 90% das vezes (Precision de 0.90). " +
			"Isso nos dá alta confiança nos alertas de alto risco.",
	},
	{
		Title: "Onde o modelo tem mais dificuldade (O Ponto de Atenção)",
		Body: "O principal desafio do modelo é na fronteira entre Peso Normal e Sobrepeso. " +
			"A Matriz de Confusão mostra que, de 60 pacientes de Peso Normal, o modelo confundiu 13 deles como Sobrepeso. " +
			"Isso é confirmado pelo Recall de 0.68 para Peso Normal.",
	},
	{
		Title: "Conclusão para o Médico",
		Body: "Use esta ferramenta como um forte apoio à triagem para casos graves. " +
			"Tenha atenção redobrada ao avaliar pacientes na fronteira entre Peso Normal e Sobrepeso, " +
			"pois é onde as nuances comportamentais mais impactam a previsão.",
	},
}

var shapInterpretation = []Section{
	{
		Title: "O modelo pensa como um clínico",
		Body: "O modelo baseia suas decisões nos fatores de maior impacto clínico: " +
			"Idade, Consumo de Vegetais, Gênero e Histórico Familiar.",
	},
	{
		Title: "Os Índices funcionam",
		Body: "Os índices criados (indice_risco_alimentar e indice_estilo_vida) são altamente preditivos " +
			"e confirmam que o conjunto de hábitos é mais importante que fatores isolados.",
	},
	{
		Title: "Diagnóstico Final",
		Body: "O modelo é confiável. Ele não está usando correlações espúrias. " +
			"Suas previsões são baseadas em fatores que fazem sentido clínico.",
	},
}

// Service builds the report against a figures directory.
type Service struct {
	dir       string
	urlPrefix string
}

// NewService reads figures from dir; urlPrefix is where the handler serves
// them.
func NewService(dir, urlPrefix string) *Service {
	return &Service{dir: dir, urlPrefix: urlPrefix}
}

// Path returns the on-disk location of a published figure.
func (s *Service) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Build assembles the report. Each figure is checked on its own; a missing
// one only adds a warning. The SHAP interpretation is shown only alongside
// its chart.
func (s *Service) Build() Report {
	m := FinalMetrics
	m.MeetsRequirement = m.Accuracy >= RequiredAccuracy

	r := Report{
		Title: "Interpretação e Performance do Modelo",
		Summary: "Esta ferramenta é alimentada por um modelo de Random Forest treinado na base de dados " +
			"corrigida (padrão OMS). As métricas refletem o desempenho final do modelo no conjunto de teste " +
			"(20% dos dados que ele nunca havia visto).",
		Metrics:   m,
		Diagnosis: diagnosis,
	}

	for _, f := range figures {
		err := asset.Stat(f.Name, s.Path(f.Name))
		if err == nil {
			f.Available = true
			f.URL = s.urlPrefix + "/" + f.Name
			if f.Name == "shap_summary_bar.png" {
				r.Interpretation = shapInterpretation
			}
		} else if w, ok := asset.WarningFor(f.Name, f.missing, err); ok {
			r.Warnings = append(r.Warnings, w)
		}
		r.Figures = append(r.Figures, f)
	}
	return r
}
