package assessment

import "math"

// bmiLadder holds the exclusive upper bound of each class. Anything at or
// above the last bound is Obesity Grade III.
var bmiLadder = []struct {
	below    float64
	category Category
}{
	{18.5, CategoryInsufficient},
	{25, CategoryNormal},
	{30, CategoryOverweight},
	{35, CategoryObesityI},
	{40, CategoryObesityII},
}

// ClassifyBMI computes weight / height^2, rounded to two decimals, and maps it
// to the WHO class. A BMI equal to a threshold falls in the higher class.
func ClassifyBMI(weightKg, heightM float64) (float64, Category, error) {
	if heightM <= 0 || math.IsNaN(heightM) || math.IsInf(heightM, 0) {
		return 0, "", invalidInput(FieldHeight, "must be positive, got %v", heightM)
	}
	// 64 kg at 1.60 m divides to 24.999999999999996.
	bmi := math.Round(weightKg/(heightM*heightM)*100) / 100
	return bmi, CategoryForBMI(bmi), nil
}

// CategoryForBMI applies the threshold ladder to an already computed BMI.
func CategoryForBMI(bmi float64) Category {
	for _, step := range bmiLadder {
		if bmi < step.below {
			return step.category
		}
	}
	return CategoryObesityIII
}
