package assessment

// Trained column names, in the order the pipeline was fitted on.
const (
	ColGender            = "genero"
	ColAge               = "idade"
	ColFamilyHistory     = "historico_familiar"
	ColCaloricFood       = "consumo_alimentos_caloricos"
	ColVegetables        = "consumo_vegetais"
	ColMainMeals         = "refeicoes_principais"
	ColSnacking          = "lanches_entre_refeicoes"
	ColSmoking           = "fumante"
	ColWater             = "consumo_agua"
	ColCalorieMonitoring = "monitora_calorias"
	ColActivity          = "atividade_fisica"
	ColScreenTime        = "tempo_telas"
	ColAlcohol           = "consumo_alcool"
	ColTransport         = "transporte"
	ColLifestyleIndex    = "indice_estilo_vida"
	ColDietaryRiskIndex  = "indice_risco_alimentar"
)

// FeatureColumns is the exact schema the classifier expects.
var FeatureColumns = []string{
	ColGender,
	ColAge,
	ColFamilyHistory,
	ColCaloricFood,
	ColVegetables,
	ColMainMeals,
	ColSnacking,
	ColSmoking,
	ColWater,
	ColCalorieMonitoring,
	ColActivity,
	ColScreenTime,
	ColAlcohol,
	ColTransport,
	ColLifestyleIndex,
	ColDietaryRiskIndex,
}

// EncodedRow is a model-ready record. Categorical columns hold trained codes,
// ordinal columns hold integer levels.
type EncodedRow struct {
	Gender            string  `json:"genero"`
	Age               float64 `json:"idade"`
	FamilyHistory     string  `json:"historico_familiar"`
	CaloricFood       string  `json:"consumo_alimentos_caloricos"`
	Vegetables        int     `json:"consumo_vegetais"`
	MainMeals         int     `json:"refeicoes_principais"`
	Snacking          string  `json:"lanches_entre_refeicoes"`
	Smoking           string  `json:"fumante"`
	Water             int     `json:"consumo_agua"`
	CalorieMonitoring string  `json:"monitora_calorias"`
	Activity          int     `json:"atividade_fisica"`
	ScreenTime        int     `json:"tempo_telas"`
	Alcohol           string  `json:"consumo_alcool"`
	Transport         string  `json:"transporte"`
	LifestyleIndex    int     `json:"indice_estilo_vida"`
	DietaryRiskIndex  int     `json:"indice_risco_alimentar"`
}

// Feature is one column of an EncodedRow.
type Feature struct {
	Name        string
	Categorical bool
	Code        string
	Number      float64
}

func categorical(name, code string) Feature { return Feature{Name: name, Categorical: true, Code: code} }
func numeric(name string, v float64) Feature { return Feature{Name: name, Number: v} }

// Features returns the row as columns in FeatureColumns order.
func (r EncodedRow) Features() []Feature {
	return []Feature{
		categorical(ColGender, r.Gender),
		numeric(ColAge, r.Age),
		categorical(ColFamilyHistory, r.FamilyHistory),
		categorical(ColCaloricFood, r.CaloricFood),
		numeric(ColVegetables, float64(r.Vegetables)),
		numeric(ColMainMeals, float64(r.MainMeals)),
		categorical(ColSnacking, r.Snacking),
		categorical(ColSmoking, r.Smoking),
		numeric(ColWater, float64(r.Water)),
		categorical(ColCalorieMonitoring, r.CalorieMonitoring),
		numeric(ColActivity, float64(r.Activity)),
		numeric(ColScreenTime, float64(r.ScreenTime)),
		categorical(ColAlcohol, r.Alcohol),
		categorical(ColTransport, r.Transport),
		numeric(ColLifestyleIndex, float64(r.LifestyleIndex)),
		numeric(ColDietaryRiskIndex, float64(r.DietaryRiskIndex)),
	}
}

// LifestyleIndex is vegetables + water + activity - screen time.
func LifestyleIndex(vegetables, water, activity, screen int) int {
	return vegetables + water + activity - screen
}

// DietaryRiskIndex sums the three risk-scale answers.
func DietaryRiskIndex(caloricFood, snacking, alcohol RiskLevel) int {
	return int(caloricFood + snacking + alcohol)
}

// Encode maps a form submission to the trained row schema. Any label outside
// its table fails with a *LookupError; nothing is defaulted.
func Encode(in PatientInputs) (EncodedRow, error) {
	var row EncodedRow
	e := &encoder{}

	row.Gender = translate(e, genderCodes, FieldGender, in.Gender)
	row.Age = in.Age
	row.FamilyHistory = translate(e, yesNoCodes, FieldFamilyHistory, in.FamilyHistory)
	row.CaloricFood = translate(e, yesNoCodes, FieldCaloricFood, in.CaloricFood)
	row.Vegetables = translate(e, vegetableLevels, FieldVegetables, in.Vegetables)
	row.MainMeals = translate(e, mealLevels, FieldMainMeals, in.MainMeals)
	row.Snacking = translate(e, frequencyCodes, FieldSnacking, in.Snacking)
	row.Smoking = translate(e, yesNoCodes, FieldSmoking, in.Smoking)
	row.Water = translate(e, waterLevels, FieldWater, in.Water)
	row.CalorieMonitoring = translate(e, yesNoCodes, FieldCalorieMonitoring, in.CalorieMonitoring)
	row.Activity = translate(e, activityLevels, FieldActivity, in.Activity)
	row.ScreenTime = translate(e, screenLevels, FieldScreenTime, in.ScreenTime)
	row.Alcohol = translate(e, frequencyCodes, FieldAlcohol, in.Alcohol)
	row.Transport = translate(e, transportCodes, FieldTransport, in.Transport)

	caloric := translate(e, yesNoRisk, FieldCaloricFood, in.CaloricFood)
	snacking := translate(e, frequencyRisk, FieldSnacking, in.Snacking)
	alcohol := translate(e, frequencyRisk, FieldAlcohol, in.Alcohol)

	if e.err != nil {
		return EncodedRow{}, e.err
	}

	row.LifestyleIndex = LifestyleIndex(row.Vegetables, row.Water, row.Activity, row.ScreenTime)
	row.DietaryRiskIndex = DietaryRiskIndex(caloric, snacking, alcohol)
	return row, nil
}

// encoder keeps the first lookup failure so Encode reads as a flat list.
type encoder struct {
	err error
}

func translate[V any](e *encoder, t table[V], field, label string) V {
	var zero V
	if e.err != nil {
		return zero
	}
	v, err := t.lookup(field, label)
	if err != nil {
		e.err = err
		return zero
	}
	return v
}
