// Package story computes the exploratory "data story" view over the gold
// dataset: sample profile, class distributions and the BMI evidence behind
// replacing the original target with the WHO classes.
package story

import (
	"math"
	"sort"

	"obesity-risk/internal/assessment"
	"obesity-risk/internal/dataset"
	"obesity-risk/internal/platform/asset"
)

// Summary is the headline card row.
type Summary struct {
	Total            int      `json:"total"`
	MeanAge          *float64 `json:"mean_age"`
	MeanBMI          *float64 `json:"mean_bmi"`
	HealthyHabitRate *float64 `json:"healthy_habit_rate"`
}

// Share is a labelled count with its percentage of the sample.
type Share struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// BMIRange is one row of the BMI evidence table.
type BMIRange struct {
	Class  string  `json:"class"`
	Gender string  `json:"gender"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
}

// ClassGenderCount is one bar group of a gender crosstab. Counts follows
// GenderCrosstab.Genders.
type ClassGenderCount struct {
	Class  string `json:"class"`
	Counts []int  `json:"counts"`
	Total  int    `json:"total"`
}

// GenderCrosstab counts individuals per class and gender.
type GenderCrosstab struct {
	Genders []string           `json:"genders"`
	Rows    []ClassGenderCount `json:"rows"`
}

// Distribution is the five-number summary plus mean of a box plot.
// Quartiles interpolate linearly between order statistics.
type Distribution struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// IndexStats describes the engineered indices of one WHO class. A nil
// distribution means the column is absent or has no usable values.
type IndexStats struct {
	Class          string        `json:"class"`
	Count          int           `json:"count"`
	LifestyleIndex *Distribution `json:"indice_estilo_vida"`
	DietaryRisk    *Distribution `json:"indice_risco_alimentar"`
}

// View is everything the data story renders.
type View struct {
	Title                 string          `json:"title"`
	Summary               Summary         `json:"summary"`
	Gender                []Share         `json:"gender"`
	OriginalClass         []Share         `json:"original_class"`
	GenderByOriginalClass *GenderCrosstab `json:"gender_by_original_class,omitempty"`
	WHOClass              []Share         `json:"who_class"`
	GenderByWHOClass      *GenderCrosstab `json:"gender_by_who_class,omitempty"`
	BMIByClass            []BMIRange      `json:"bmi_by_class_gender"`
	IndexByClass          []IndexStats    `json:"index_by_who_class"`
	Warnings              []asset.Warning `json:"warnings,omitempty"`
}

// expected columns; their absence is reported, the rest of the view renders.
var expectedColumns = []string{dataset.ColBMI, dataset.ColWHOClass}

var genders = []string{"Female", "Male"}

// Compute builds the view from a loaded table.
func Compute(t *dataset.Table) View {
	v := View{Title: "Visão Analítica - Nível Obesidade"}
	for _, c := range t.Missing(expectedColumns...) {
		v.Warnings = append(v.Warnings, asset.Warning{Asset: c, Message: "Coluna ausente na base: " + c})
	}

	n := t.Len()
	v.Summary = Summary{
		Total:            n,
		MeanAge:          meanOf(t, assessment.ColAge),
		MeanBMI:          meanOf(t, dataset.ColBMI),
		HealthyHabitRate: habitRate(t),
	}

	if t.Has(assessment.ColGender) {
		counts := countBy(t, assessment.ColGender)
		for _, g := range genders {
			v.Gender = append(v.Gender, share(g, counts[g], n))
		}
	}

	if t.Has(dataset.ColOriginalClass) {
		counts := countBy(t, dataset.ColOriginalClass)
		labels := make([]string, 0, len(counts))
		for l := range counts {
			labels = append(labels, l)
		}
		sort.Slice(labels, func(i, j int) bool {
			if counts[labels[i]] != counts[labels[j]] {
				return counts[labels[i]] > counts[labels[j]]
			}
			return labels[i] < labels[j]
		})
		for _, l := range labels {
			v.OriginalClass = append(v.OriginalClass, share(l, counts[l], n))
		}
		v.GenderByOriginalClass = genderCrosstab(t, dataset.ColOriginalClass, labels)
		v.BMIByClass = bmiRanges(t)
	}

	if t.Has(dataset.ColWHOClass) {
		counts := countBy(t, dataset.ColWHOClass)
		order := make([]string, len(assessment.Categories))
		for i, c := range assessment.Categories {
			order[i] = string(c)
			v.WHOClass = append(v.WHOClass, share(order[i], counts[order[i]], n))
		}
		v.GenderByWHOClass = genderCrosstab(t, dataset.ColWHOClass, order)
		v.IndexByClass = indexStats(t)
	}
	return v
}

func share(label string, count, total int) Share {
	s := Share{Label: label, Count: count}
	if total > 0 {
		s.Percent = round1(float64(count) / float64(total) * 100)
	}
	return s
}

func countBy(t *dataset.Table, col string) map[string]int {
	counts := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		if v := t.Value(i, col); v != "" {
			counts[v]++
		}
	}
	return counts
}

// meanOf skips empty and unparsable cells. Nil when nothing is usable.
func meanOf(t *dataset.Table, col string) *float64 {
	if !t.Has(col) {
		return nil
	}
	var sum float64
	var n int
	for i := 0; i < t.Len(); i++ {
		if v, ok := t.Float(i, col); ok {
			sum += v
			n++
		}
	}
	return meanPtr(sum, n)
}

func habitRate(t *dataset.Table) *float64 {
	if !t.Has(dataset.ColHealthyHabits) {
		return nil
	}
	var yes, n int
	for i := 0; i < t.Len(); i++ {
		if b, ok := t.Bool(i, dataset.ColHealthyHabits); ok {
			n++
			if b {
				yes++
			}
		}
	}
	if n == 0 {
		return nil
	}
	r := round1(float64(yes) / float64(n) * 100)
	return &r
}

type groupKey struct{ class, gender string }

func bmiRanges(t *dataset.Table) []BMIRange {
	if !t.Has(dataset.ColBMI) || !t.Has(assessment.ColGender) {
		return nil
	}
	groups := make(map[groupKey]*BMIRange)
	sums := make(map[groupKey]float64)
	for i := 0; i < t.Len(); i++ {
		bmi, ok := t.Float(i, dataset.ColBMI)
		if !ok {
			continue
		}
		k := groupKey{t.Value(i, dataset.ColOriginalClass), t.Value(i, assessment.ColGender)}
		g, seen := groups[k]
		if !seen {
			g = &BMIRange{Class: k.class, Gender: k.gender, Min: bmi, Max: bmi}
			groups[k] = g
		}
		g.Count++
		g.Min = math.Min(g.Min, bmi)
		g.Max = math.Max(g.Max, bmi)
		sums[k] += bmi
	}

	out := make([]BMIRange, 0, len(groups))
	for k, g := range groups {
		g.Mean = round1(sums[k] / float64(g.Count))
		g.Min = round1(g.Min)
		g.Max = round1(g.Max)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Class != out[j].Class {
			return out[i].Class < out[j].Class
		}
		return out[i].Gender < out[j].Gender
	})
	return out
}

// genderCrosstab counts rows per class (in the given order) and gender.
// Rows with an empty class or gender are skipped.
func genderCrosstab(t *dataset.Table, classCol string, classes []string) *GenderCrosstab {
	if !t.Has(assessment.ColGender) {
		return nil
	}
	pos := make(map[string]int, len(genders))
	for i, g := range genders {
		pos[g] = i
	}
	rows := make([]ClassGenderCount, len(classes))
	byClass := make(map[string]*ClassGenderCount, len(classes))
	for i, c := range classes {
		rows[i] = ClassGenderCount{Class: c, Counts: make([]int, len(genders))}
		byClass[c] = &rows[i]
	}
	for i := 0; i < t.Len(); i++ {
		r, ok := byClass[t.Value(i, classCol)]
		if !ok {
			continue
		}
		g, ok := pos[t.Value(i, assessment.ColGender)]
		if !ok {
			continue
		}
		r.Counts[g]++
		r.Total++
	}
	return &GenderCrosstab{Genders: genders, Rows: rows}
}

func indexStats(t *dataset.Table) []IndexStats {
	type acc struct {
		n          int
		life, risk []float64
	}
	byClass := make(map[string]*acc)
	for i := 0; i < t.Len(); i++ {
		c := t.Value(i, dataset.ColWHOClass)
		a, ok := byClass[c]
		if !ok {
			a = &acc{}
			byClass[c] = a
		}
		a.n++
		if v, ok := t.Float(i, assessment.ColLifestyleIndex); ok {
			a.life = append(a.life, v)
		}
		if v, ok := t.Float(i, assessment.ColDietaryRiskIndex); ok {
			a.risk = append(a.risk, v)
		}
	}

	var out []IndexStats
	for _, c := range assessment.Categories {
		a, ok := byClass[string(c)]
		if !ok {
			continue
		}
		out = append(out, IndexStats{
			Class:          string(c),
			Count:          a.n,
			LifestyleIndex: distribution(a.life),
			DietaryRisk:    distribution(a.risk),
		})
	}
	return out
}

// distribution sorts values in place. Nil for an empty sample.
func distribution(values []float64) *Distribution {
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)
	var sum float64
	for _, v := range values {
		sum += v
	}
	return &Distribution{
		Count:  len(values),
		Min:    values[0],
		Q1:     round1(quantile(values, 0.25)),
		Median: round1(quantile(values, 0.5)),
		Q3:     round1(quantile(values, 0.75)),
		Max:    values[len(values)-1],
		Mean:   round1(sum / float64(len(values))),
	}
}

// quantile expects sorted input.
func quantile(sorted []float64, p float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[i]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func meanPtr(sum float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	m := round1(sum / float64(n))
	return &m
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
