package assessment

import "fmt"

// Category is one of the six WHO weight classes the classifier was trained on.
type Category string

const (
	CategoryInsufficient Category = "Peso Insuficiente"
	CategoryNormal       Category = "Peso Normal"
	CategoryOverweight   Category = "Sobrepeso"
	CategoryObesityI     Category = "Obesidade Grau I"
	CategoryObesityII    Category = "Obesidade Grau II"
	CategoryObesityIII   Category = "Obesidade Grau III"
)

// Categories lists the classes from lightest to heaviest.
var Categories = []Category{
	CategoryInsufficient,
	CategoryNormal,
	CategoryOverweight,
	CategoryObesityI,
	CategoryObesityII,
	CategoryObesityIII,
}

// ParseCategory maps a decoded label back to its Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown obesity category %q", s)
}

// Rank is the position of c in Categories, or -1.
func (c Category) Rank() int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return -1
}

// RiskBand is the three-tier banding shown next to a prediction.
type RiskBand string

const (
	RiskLow      RiskBand = "low"
	RiskModerate RiskBand = "moderate"
	RiskHigh     RiskBand = "high"
)

// RiskBandFor partitions the six categories: any obesity grade is high,
// overweight is moderate, everything else is low.
func RiskBandFor(c Category) RiskBand {
	switch c {
	case CategoryObesityI, CategoryObesityII, CategoryObesityIII:
		return RiskHigh
	case CategoryOverweight:
		return RiskModerate
	default:
		return RiskLow
	}
}
