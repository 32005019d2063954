package assessment

import (
	"math"
	"strconv"
)

// Range is an inclusive numeric bound for a form field.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

func (r Range) contains(v float64) bool {
	return !math.IsNaN(v) && v >= r.Min && v <= r.Max
}

// Numeric bounds enforced by the form.
var (
	AgeRange    = Range{Min: 14, Max: 100, Step: 1}
	WeightRange = Range{Min: 30, Max: 300, Step: 0.5}
	HeightRange = Range{Min: 1.20, Max: 2.20, Step: 0.01}
)

// NumericField describes a numeric form input.
type NumericField struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Range Range  `json:"range"`
}

// ChoiceField describes a single-choice form input. Options are exactly the
// labels its lookup table accepts.
type ChoiceField struct {
	Field   string   `json:"field"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

// Form is the full form definition served to the UI.
type Form struct {
	Numeric []NumericField `json:"numeric"`
	Choices []ChoiceField  `json:"choices"`
}

// FormDefinition builds the form from the lookup tables so the UI can never
// offer a label the encoder does not know.
func FormDefinition() Form {
	return Form{
		Numeric: []NumericField{
			{Field: FieldAge, Label: "Idade", Range: AgeRange},
			{Field: FieldWeight, Label: "Peso (kg)", Range: WeightRange},
			{Field: FieldHeight, Label: "Altura (m)", Range: HeightRange},
		},
		Choices: []ChoiceField{
			{Field: FieldGender, Label: "Gênero", Options: genderCodes.labels()},
			{Field: FieldFamilyHistory, Label: "Histórico familiar de sobrepeso?", Options: yesNoCodes.labels()},
			{Field: FieldCaloricFood, Label: "Consome alimentos calóricos com frequência?", Options: yesNoCodes.labels()},
			{Field: FieldVegetables, Label: "Consumo de vegetais nas refeições", Options: vegetableLevels.labels()},
			{Field: FieldMainMeals, Label: "Refeições principais por dia", Options: mealLevels.labels()},
			{Field: FieldSnacking, Label: "Come entre as refeições?", Options: frequencyCodes.labels()},
			{Field: FieldSmoking, Label: "Fuma?", Options: yesNoCodes.labels()},
			{Field: FieldWater, Label: "Consumo diário de água", Options: waterLevels.labels()},
			{Field: FieldCalorieMonitoring, Label: "Monitora as calorias ingeridas?", Options: yesNoCodes.labels()},
			{Field: FieldActivity, Label: "Frequência de atividade física", Options: activityLevels.labels()},
			{Field: FieldScreenTime, Label: "Tempo diário em telas", Options: screenLevels.labels()},
			{Field: FieldAlcohol, Label: "Consumo de álcool", Options: frequencyCodes.labels()},
			{Field: FieldTransport, Label: "Meio de transporte habitual", Options: transportCodes.labels()},
		},
	}
}

// Validate checks the numeric answers against the form bounds.
func Validate(in PatientInputs) error {
	switch {
	case !AgeRange.contains(in.Age):
		return invalidInput(FieldAge, "%v outside [%v, %v]", in.Age, AgeRange.Min, AgeRange.Max)
	case !WeightRange.contains(in.WeightKg):
		return invalidInput(FieldWeight, "%v outside [%v, %v]", in.WeightKg, WeightRange.Min, WeightRange.Max)
	case !HeightRange.contains(in.HeightM):
		return invalidInput(FieldHeight, "%v outside [%v, %v]", in.HeightM, HeightRange.Min, HeightRange.Max)
	}
	return nil
}

// Answer is one labelled form answer, for reports.
type Answer struct {
	Label string
	Value string
}

// Answers lists the submission in form order with the form's labels.
func (in PatientInputs) Answers() []Answer {
	choices := map[string]string{
		FieldGender:            in.Gender,
		FieldFamilyHistory:     in.FamilyHistory,
		FieldCaloricFood:       in.CaloricFood,
		FieldVegetables:        in.Vegetables,
		FieldMainMeals:         in.MainMeals,
		FieldSnacking:          in.Snacking,
		FieldSmoking:           in.Smoking,
		FieldWater:             in.Water,
		FieldCalorieMonitoring: in.CalorieMonitoring,
		FieldActivity:          in.Activity,
		FieldScreenTime:        in.ScreenTime,
		FieldAlcohol:           in.Alcohol,
		FieldTransport:         in.Transport,
	}
	numbers := map[string]string{
		FieldAge:    strconv.FormatFloat(in.Age, 'f', -1, 64),
		FieldWeight: strconv.FormatFloat(in.WeightKg, 'f', 1, 64),
		FieldHeight: strconv.FormatFloat(in.HeightM, 'f', 2, 64),
	}

	form := FormDefinition()
	out := make([]Answer, 0, len(form.Numeric)+len(form.Choices))
	for _, f := range form.Numeric {
		out = append(out, Answer{Label: f.Label, Value: numbers[f.Field]})
	}
	for _, f := range form.Choices {
		out = append(out, Answer{Label: f.Label, Value: choices[f.Field]})
	}
	return out
}
