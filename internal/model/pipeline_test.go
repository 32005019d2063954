package model_test

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obesity-risk/internal/assessment"
	"obesity-risk/internal/model"
)

func baseInputs() assessment.PatientInputs {
	return assessment.PatientInputs{
		Age:               30,
		WeightKg:          70,
		HeightM:           1.70,
		Gender:            "Feminino",
		FamilyHistory:     "Não",
		CaloricFood:       "Não",
		Vegetables:        "Sempre",
		MainMeals:         "Três",
		Snacking:          "Às vezes",
		Smoking:           "Não",
		Water:             "Entre 1 e 2 litros",
		CalorieMonitoring: "Não",
		Activity:          "1 a 2 dias",
		ScreenTime:        "0 a 2 horas",
		Alcohol:           "Não",
		Transport:         "Transporte público",
	}
}

func encode(t *testing.T, mutate func(*assessment.PatientInputs)) assessment.EncodedRow {
	t.Helper()
	in := baseInputs()
	if mutate != nil {
		mutate(&in)
	}
	row, err := assessment.Encode(in)
	require.NoError(t, err)
	return row
}

func loadTestPipeline(t *testing.T) *model.Pipeline {
	t.Helper()
	p, err := model.LoadPipeline("testdata/pipeline.json")
	require.NoError(t, err)
	return p
}

func TestLoadPipeline(t *testing.T) {
	p := loadTestPipeline(t)

	assert.Equal(t, assessment.FeatureColumns, p.FeatureNamesIn)
	assert.Empty(t, model.SchemaMismatch(p.FeatureNamesIn))
	assert.Len(t, p.Trees, 2)
}

func TestLoadPipeline_MissingFile(t *testing.T) {
	_, err := model.LoadPipeline("testdata/does-not-exist.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestPipeline_Transform(t *testing.T) {
	p := loadTestPipeline(t)
	row := encode(t, nil)

	x, err := p.Transform(row)
	require.NoError(t, err)
	require.Len(t, x, 31)

	// numeric block
	assert.Equal(t, 30.0, x[0])
	assert.Equal(t, float64(row.LifestyleIndex), x[6])
	assert.Equal(t, float64(row.DietaryRiskIndex), x[7])
	// genero=Female, historico_familiar=no
	assert.Equal(t, []float64{1, 0}, x[8:10])
	assert.Equal(t, []float64{1, 0}, x[10:12])
	// lanches=Sometimes
	assert.Equal(t, []float64{0, 0, 1, 0}, x[14:18])
	// transporte=Public_Transportation
	assert.Equal(t, []float64{0, 0, 0, 1, 0}, x[26:31])
}

func TestPipeline_Predict(t *testing.T) {
	p := loadTestPipeline(t)

	rows := []assessment.EncodedRow{
		encode(t, nil),
		encode(t, func(in *assessment.PatientInputs) { in.FamilyHistory = "Sim" }),
		encode(t, func(in *assessment.PatientInputs) {
			in.FamilyHistory = "Sim"
			in.CaloricFood = "Sim"
			in.Snacking = "Frequente"
			in.Alcohol = "Sempre"
		}),
	}

	codes, err := p.Predict(context.Background(), rows)
	require.NoError(t, err)
	// 4 = Peso Normal, 5 = Sobrepeso, 1 = Obesidade Grau II
	assert.Equal(t, []int{4, 5, 1}, codes)
}

func TestPipeline_Predict_CanceledContext(t *testing.T) {
	p := loadTestPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Predict(ctx, []assessment.EncodedRow{encode(t, nil)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_Init_Errors(t *testing.T) {
	leaf := model.Node{Left: -1, Right: -1, Value: []float64{1, 0}}
	valid := func() model.Pipeline {
		return model.Pipeline{
			FeatureNamesIn: []string{"idade", "genero"},
			Numeric:        []model.NumericColumn{{Name: "idade", Scale: 1}},
			Categorical:    []model.CategoricalColumn{{Name: "genero", Categories: []string{"Female", "Male"}}},
			Classes:        []int{0, 1},
			Trees: []model.Tree{{Nodes: []model.Node{
				{Feature: 1, Threshold: 0.5, Left: 1, Right: 2},
				leaf,
				leaf,
			}}},
		}
	}

	p := valid()
	require.NoError(t, p.Init())

	tests := []struct {
		name   string
		mutate func(*model.Pipeline)
	}{
		{"no trees", func(p *model.Pipeline) { p.Trees = nil }},
		{"no classes", func(p *model.Pipeline) { p.Classes = nil }},
		{"column without transformer", func(p *model.Pipeline) { p.FeatureNamesIn = []string{"idade", "fumante"} }},
		{"column in both transformers", func(p *model.Pipeline) {
			p.Categorical = append(p.Categorical, model.CategoricalColumn{Name: "idade"})
		}},
		{"split feature out of range", func(p *model.Pipeline) { p.Trees[0].Nodes[0].Feature = 3 }},
		{"child before parent", func(p *model.Pipeline) { p.Trees[0].Nodes[0].Left = 0 }},
		{"leaf with wrong arity", func(p *model.Pipeline) {
			p.Trees[0].Nodes[1] = model.Node{Left: -1, Right: -1, Value: []float64{1}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			assert.Error(t, p.Init())
		})
	}
}

func TestPipeline_Transform_UnknownCategoryIsIgnored(t *testing.T) {
	p := loadTestPipeline(t)
	row := encode(t, nil)
	row.Transport = "Teleport"

	x, err := p.Transform(row)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, x[26:31])
}
