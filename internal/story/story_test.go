package story_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obesity-risk/internal/dataset"
	"obesity-risk/internal/story"
)

const gold = `genero,idade,IMC,classe_peso_corporal,classe_peso_oms,comportamento_saudavel,indice_estilo_vida,indice_risco_alimentar
Female,20,22.0,Normal_Weight,Peso Normal,1,6,2
Female,30,36.0,Obesity_Type_III,Obesidade Grau II,0,3,6
Male,40,31.0,Obesity_Type_II,Obesidade Grau I,0,2,5
Male,30,24.0,Normal_Weight,Peso Normal,1,4,1
`

func mustTable(t *testing.T, csv string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Read(strings.NewReader(csv))
	require.NoError(t, err)
	return tbl
}

func TestCompute(t *testing.T) {
	v := story.Compute(mustTable(t, gold))

	assert.Empty(t, v.Warnings)
	assert.Equal(t, 4, v.Summary.Total)
	require.NotNil(t, v.Summary.MeanAge)
	assert.Equal(t, 30.0, *v.Summary.MeanAge)
	require.NotNil(t, v.Summary.MeanBMI)
	assert.Equal(t, 28.3, *v.Summary.MeanBMI)
	require.NotNil(t, v.Summary.HealthyHabitRate)
	assert.Equal(t, 50.0, *v.Summary.HealthyHabitRate)

	assert.Equal(t, []story.Share{
		{Label: "Female", Count: 2, Percent: 50},
		{Label: "Male", Count: 2, Percent: 50},
	}, v.Gender)

	require.Len(t, v.OriginalClass, 3)
	assert.Equal(t, "Normal_Weight", v.OriginalClass[0].Label)
	assert.Equal(t, 2, v.OriginalClass[0].Count)

	// WHO classes keep the clinical order, zero counts included.
	require.Len(t, v.WHOClass, 6)
	assert.Equal(t, "Peso Insuficiente", v.WHOClass[0].Label)
	assert.Equal(t, 0, v.WHOClass[0].Count)
	assert.Equal(t, story.Share{Label: "Peso Normal", Count: 2, Percent: 50}, v.WHOClass[1])

	require.Len(t, v.BMIByClass, 4)
	assert.Equal(t, story.BMIRange{Class: "Normal_Weight", Gender: "Female", Count: 1, Min: 22, Mean: 22, Max: 22}, v.BMIByClass[0])
	assert.Equal(t, "Male", v.BMIByClass[1].Gender)

	require.Len(t, v.IndexByClass, 3)
	normal := v.IndexByClass[0]
	assert.Equal(t, "Peso Normal", normal.Class)
	assert.Equal(t, 2, normal.Count)
	assert.Equal(t, &story.Distribution{Count: 2, Min: 4, Q1: 4.5, Median: 5, Q3: 5.5, Max: 6, Mean: 5}, normal.LifestyleIndex)
	assert.Equal(t, &story.Distribution{Count: 2, Min: 1, Q1: 1.3, Median: 1.5, Q3: 1.8, Max: 2, Mean: 1.5}, normal.DietaryRisk)
	assert.Equal(t, "Obesidade Grau I", v.IndexByClass[1].Class)
}

func TestCompute_GenderCrosstabs(t *testing.T) {
	v := story.Compute(mustTable(t, gold))

	require.NotNil(t, v.GenderByOriginalClass)
	assert.Equal(t, []string{"Female", "Male"}, v.GenderByOriginalClass.Genders)
	// same order as the original class distribution
	assert.Equal(t, []story.ClassGenderCount{
		{Class: "Normal_Weight", Counts: []int{1, 1}, Total: 2},
		{Class: "Obesity_Type_II", Counts: []int{0, 1}, Total: 1},
		{Class: "Obesity_Type_III", Counts: []int{1, 0}, Total: 1},
	}, v.GenderByOriginalClass.Rows)

	require.NotNil(t, v.GenderByWHOClass)
	rows := v.GenderByWHOClass.Rows
	require.Len(t, rows, 6)
	assert.Equal(t, story.ClassGenderCount{Class: "Peso Insuficiente", Counts: []int{0, 0}}, rows[0])
	assert.Equal(t, story.ClassGenderCount{Class: "Peso Normal", Counts: []int{1, 1}, Total: 2}, rows[1])
	assert.Equal(t, story.ClassGenderCount{Class: "Obesidade Grau I", Counts: []int{0, 1}, Total: 1}, rows[3])
	assert.Equal(t, story.ClassGenderCount{Class: "Obesidade Grau II", Counts: []int{1, 0}, Total: 1}, rows[4])
	assert.Equal(t, story.ClassGenderCount{Class: "Obesidade Grau III", Counts: []int{0, 0}}, rows[5])
}

func TestCompute_IndexDistribution(t *testing.T) {
	csv := "IMC,classe_peso_oms,indice_estilo_vida\n" +
		"27,Sobrepeso,5\n" +
		"27,Sobrepeso,3\n" +
		"27,Sobrepeso,\n" +
		"27,Sobrepeso,1\n" +
		"27,Sobrepeso,4\n" +
		"27,Sobrepeso,2\n"
	v := story.Compute(mustTable(t, csv))

	assert.Nil(t, v.GenderByWHOClass)
	assert.Nil(t, v.GenderByOriginalClass)
	require.Len(t, v.IndexByClass, 1)
	s := v.IndexByClass[0]
	assert.Equal(t, 6, s.Count)
	assert.Equal(t, &story.Distribution{Count: 5, Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 5, Mean: 3}, s.LifestyleIndex)
	assert.Nil(t, s.DietaryRisk)
}

func TestCompute_MissingColumns(t *testing.T) {
	v := story.Compute(mustTable(t, "genero,idade\nFemale,20\nMale,22\n"))

	require.Len(t, v.Warnings, 2)
	assert.Equal(t, "IMC", v.Warnings[0].Asset)
	assert.Equal(t, "classe_peso_oms", v.Warnings[1].Asset)
	assert.Nil(t, v.Summary.MeanBMI)
	assert.Equal(t, 21.0, *v.Summary.MeanAge)
	assert.Len(t, v.Gender, 2)
	assert.Empty(t, v.WHOClass)
}

func TestService_MissingDataset(t *testing.T) {
	svc := story.NewService(filepath.Join(t.TempDir(), "obesity_gold.csv"), zerolog.Nop())

	v := svc.View()
	assert.Equal(t, 0, v.Summary.Total)
	require.Len(t, v.Warnings, 1)
	assert.Equal(t, "dataset", v.Warnings[0].Asset)
}

func TestHandler_GetStory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obesity_gold.csv")
	require.NoError(t, os.WriteFile(path, []byte(gold), 0o644))

	r := chi.NewRouter()
	story.RegisterRoutes(r, story.NewHandler(story.NewService(path, zerolog.Nop())))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/story", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var v story.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, 4, v.Summary.Total)
	assert.Len(t, v.WHOClass, 6)
}
