// Package model loads the exported classifier artifacts and evaluates them.
//
// The training script exports the fitted scikit-learn pipeline as JSON: a
// standard scaler for numeric columns, a one-hot encoder for categorical
// columns (unknown categories ignored) and a random forest whose split
// features index the transformed vector (numeric block first, then the
// one-hot blocks in column order).
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"obesity-risk/internal/assessment"
)

// NumericColumn is one StandardScaler input.
type NumericColumn struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

// CategoricalColumn is one OneHotEncoder input.
type CategoricalColumn struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Pipeline is the exported preprocessor + forest.
type Pipeline struct {
	FeatureNamesIn []string            `json:"feature_names_in"`
	Numeric        []NumericColumn     `json:"numeric"`
	Categorical    []CategoricalColumn `json:"categorical"`
	Classes        []int               `json:"classes"`
	Trees          []Tree              `json:"trees"`

	width int
}

// LoadPipeline reads and validates a pipeline artifact.
func LoadPipeline(path string) (*Pipeline, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var p Pipeline
	if err := json.Unmarshal(buf, &p); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}
	if err := p.Init(); err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}
	return &p, nil
}

// Init validates the artifact and precomputes the transformed width. It must
// be called before Predict on a Pipeline built in code.
func (p *Pipeline) Init() error {
	if len(p.Classes) == 0 {
		return fmt.Errorf("no classes")
	}
	if len(p.Trees) == 0 {
		return fmt.Errorf("no trees")
	}

	seen := make(map[string]bool, len(p.FeatureNamesIn))
	for _, c := range p.Numeric {
		seen[c.Name] = true
	}
	for _, c := range p.Categorical {
		if seen[c.Name] {
			return fmt.Errorf("column %q is both numeric and categorical", c.Name)
		}
		seen[c.Name] = true
	}
	if len(seen) != len(p.FeatureNamesIn) {
		return fmt.Errorf("preprocessor covers %d columns, feature_names_in has %d", len(seen), len(p.FeatureNamesIn))
	}
	for _, name := range p.FeatureNamesIn {
		if !seen[name] {
			return fmt.Errorf("column %q has no transformer", name)
		}
	}

	width := len(p.Numeric)
	for _, c := range p.Categorical {
		width += len(c.Categories)
	}
	p.width = width

	for i := range p.Trees {
		if err := p.Trees[i].validate(width, len(p.Classes)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// Predict implements assessment.Classifier.
func (p *Pipeline) Predict(ctx context.Context, rows []assessment.EncodedRow) ([]int, error) {
	out := make([]int, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		x, err := p.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, p.Classes[argmax(p.proba(x))])
	}
	return out, nil
}

// Transform applies the scaler and one-hot encoder to one row.
func (p *Pipeline) Transform(row assessment.EncodedRow) ([]float64, error) {
	byName := make(map[string]assessment.Feature, len(assessment.FeatureColumns))
	for _, f := range row.Features() {
		byName[f.Name] = f
	}

	x := make([]float64, 0, p.width)
	for _, c := range p.Numeric {
		f, ok := byName[c.Name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", c.Name)
		}
		if f.Categorical {
			return nil, fmt.Errorf("column %q: expected numeric, got category %q", c.Name, f.Code)
		}
		scale := c.Scale
		if scale == 0 {
			scale = 1
		}
		x = append(x, (f.Number-c.Mean)/scale)
	}
	for _, c := range p.Categorical {
		f, ok := byName[c.Name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", c.Name)
		}
		if !f.Categorical {
			return nil, fmt.Errorf("column %q: expected category, got number", c.Name)
		}
		for _, cat := range c.Categories {
			if cat == f.Code {
				x = append(x, 1)
			} else {
				x = append(x, 0)
			}
		}
	}
	return x, nil
}

// proba averages the normalized leaf distributions of all trees.
func (p *Pipeline) proba(x []float64) []float64 {
	acc := make([]float64, len(p.Classes))
	for i := range p.Trees {
		leaf := p.Trees[i].leaf(x)
		var total float64
		for _, v := range leaf {
			total += v
		}
		if total == 0 {
			continue
		}
		for k, v := range leaf {
			acc[k] += v / total
		}
	}
	n := float64(len(p.Trees))
	for k := range acc {
		acc[k] /= n
	}
	return acc
}

// Ties go to the lowest index, as numpy's argmax does.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
