package assessment

// RiskLevel is the shared 0-3 scale used by the caloric food, snacking and
// alcohol answers. The three fields are scored on the same scale so their
// sum is comparable.
type RiskLevel int

const (
	RiskNone      RiskLevel = 0
	RiskSometimes RiskLevel = 1
	RiskFrequent  RiskLevel = 2
	RiskAlways    RiskLevel = 3
)

type entry[V any] struct {
	label string
	value V
}

// table maps form labels to the value the model was trained on. order keeps
// the labels in the sequence the form presents them.
type table[V any] struct {
	order  []string
	values map[string]V
}

func newTable[V any](entries ...entry[V]) table[V] {
	t := table[V]{values: make(map[string]V, len(entries))}
	for _, e := range entries {
		t.order = append(t.order, e.label)
		t.values[e.label] = e.value
	}
	return t
}

func (t table[V]) lookup(field, label string) (V, error) {
	v, ok := t.values[label]
	if !ok {
		var zero V
		return zero, &LookupError{Field: field, Label: label}
	}
	return v, nil
}

func (t table[V]) labels() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Categorical tables: form label -> trained category code.
var (
	genderCodes = newTable(
		entry[string]{"Feminino", "Female"},
		entry[string]{"Masculino", "Male"},
	)
	yesNoCodes = newTable(
		entry[string]{"Sim", "yes"},
		entry[string]{"Não", "no"},
	)
	frequencyCodes = newTable(
		entry[string]{"Não", "no"},
		entry[string]{"Às vezes", "Sometimes"},
		entry[string]{"Frequente", "Frequently"},
		entry[string]{"Sempre", "Always"},
	)
	transportCodes = newTable(
		entry[string]{"Transporte público", "Public_Transportation"},
		entry[string]{"Caminhada", "Walking"},
		entry[string]{"Automóvel", "Automobile"},
		entry[string]{"Moto", "Motorbike"},
		entry[string]{"Bicicleta", "Bike"},
	)
)

// Risk-scale tables. Both share the RiskLevel constants.
var (
	yesNoRisk = newTable(
		entry[RiskLevel]{"Não", RiskNone},
		entry[RiskLevel]{"Sim", RiskFrequent},
	)
	frequencyRisk = newTable(
		entry[RiskLevel]{"Não", RiskNone},
		entry[RiskLevel]{"Às vezes", RiskSometimes},
		entry[RiskLevel]{"Frequente", RiskFrequent},
		entry[RiskLevel]{"Sempre", RiskAlways},
	)
)

// Ordinal habit tables: form label -> integer level.
var (
	vegetableLevels = newTable(
		entry[int]{"Raramente", 1},
		entry[int]{"Às vezes", 2},
		entry[int]{"Sempre", 3},
	)
	mealLevels = newTable(
		entry[int]{"Uma", 1},
		entry[int]{"Duas", 2},
		entry[int]{"Três", 3},
		entry[int]{"Mais de três", 4},
	)
	waterLevels = newTable(
		entry[int]{"Menos de 1 litro", 1},
		entry[int]{"Entre 1 e 2 litros", 2},
		entry[int]{"Mais de 2 litros", 3},
	)
	activityLevels = newTable(
		entry[int]{"Nenhuma", 0},
		entry[int]{"1 a 2 dias", 1},
		entry[int]{"2 a 4 dias", 2},
		entry[int]{"4 a 5 dias", 3},
	)
	screenLevels = newTable(
		entry[int]{"0 a 2 horas", 0},
		entry[int]{"3 a 5 horas", 1},
		entry[int]{"Mais de 5 horas", 2},
	)
)

// RiskOf scores a caloric-food (yes/no) or frequency answer on the shared scale.
func RiskOf(field, label string) (RiskLevel, error) {
	switch field {
	case FieldCaloricFood:
		return yesNoRisk.lookup(field, label)
	case FieldSnacking, FieldAlcohol:
		return frequencyRisk.lookup(field, label)
	default:
		return 0, &LookupError{Field: field, Label: label}
	}
}

// TrainedVocabulary lists, per categorical column, every code the classifier
// was trained on.
func TrainedVocabulary() map[string][]string {
	codes := func(t table[string]) []string {
		out := make([]string, 0, len(t.order))
		for _, l := range t.order {
			out = append(out, t.values[l])
		}
		return out
	}
	return map[string][]string{
		ColGender:            codes(genderCodes),
		ColFamilyHistory:     codes(yesNoCodes),
		ColCaloricFood:       codes(yesNoCodes),
		ColSnacking:          codes(frequencyCodes),
		ColSmoking:           codes(yesNoCodes),
		ColCalorieMonitoring: codes(yesNoCodes),
		ColAlcohol:           codes(frequencyCodes),
		ColTransport:         codes(transportCodes),
	}
}
