package assessment

import (
	"time"

	"github.com/google/uuid"
)

// Form field names, as they appear in requests and lookup errors.
const (
	FieldAge               = "age"
	FieldWeight            = "weight_kg"
	FieldHeight            = "height_m"
	FieldGender            = "gender"
	FieldFamilyHistory     = "family_history"
	FieldCaloricFood       = "caloric_food"
	FieldVegetables        = "vegetables"
	FieldMainMeals         = "main_meals"
	FieldSnacking          = "snacking"
	FieldSmoking           = "smoking"
	FieldWater             = "water"
	FieldCalorieMonitoring = "calorie_monitoring"
	FieldActivity          = "activity"
	FieldScreenTime        = "screen_time"
	FieldAlcohol           = "alcohol"
	FieldTransport         = "transport"
)

// PatientInputs is one form submission.
type PatientInputs struct {
	Age      float64 `json:"age"`
	WeightKg float64 `json:"weight_kg"`
	HeightM  float64 `json:"height_m"`

	Gender            string `json:"gender"`
	FamilyHistory     string `json:"family_history"`
	CaloricFood       string `json:"caloric_food"`
	Vegetables        string `json:"vegetables"`
	MainMeals         string `json:"main_meals"`
	Snacking          string `json:"snacking"`
	Smoking           string `json:"smoking"`
	Water             string `json:"water"`
	CalorieMonitoring string `json:"calorie_monitoring"`
	Activity          string `json:"activity"`
	ScreenTime        string `json:"screen_time"`
	Alcohol           string `json:"alcohol"`
	Transport         string `json:"transport"`
}

// Prediction is the decoded classifier output for one row.
type Prediction struct {
	ID       uuid.UUID `json:"id"`
	Category Category  `json:"category"`
	RiskBand RiskBand  `json:"risk_band"`
}

// Assessment is everything produced for one submission: the model's
// prediction plus the BMI cross-check and engineered indices.
type Assessment struct {
	Prediction

	BMI              float64       `json:"bmi"`
	BMICategory      Category      `json:"bmi_category"`
	LifestyleIndex   int           `json:"lifestyle_index"`
	DietaryRiskIndex int           `json:"dietary_risk_index"`
	Inputs           PatientInputs `json:"inputs"`
	Row              EncodedRow    `json:"encoded_row"`
	CreatedAt        time.Time     `json:"created_at"`
}

// BMIAgrees reports whether the BMI class matches the model's prediction.
func (a *Assessment) BMIAgrees() bool {
	return a.BMICategory == a.Category
}
