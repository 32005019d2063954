package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// LabelEncoder is the exported target encoder: code i decodes to Classes[i].
type LabelEncoder struct {
	ClassNames []string `json:"classes_"`
}

// LoadLabelEncoder reads a label encoder artifact.
func LoadLabelEncoder(path string) (*LabelEncoder, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read label encoder: %w", err)
	}
	var le LabelEncoder
	if err := json.Unmarshal(buf, &le); err != nil {
		return nil, fmt.Errorf("decode label encoder %s: %w", path, err)
	}
	if len(le.ClassNames) == 0 {
		return nil, fmt.Errorf("label encoder %s has no classes", path)
	}
	return &le, nil
}

// Classes implements assessment.LabelDecoder.
func (le *LabelEncoder) Classes() []string {
	out := make([]string, len(le.ClassNames))
	copy(out, le.ClassNames)
	return out
}

// Decode implements assessment.LabelDecoder (inverse_transform).
func (le *LabelEncoder) Decode(codes []int) ([]string, error) {
	names := make([]string, len(codes))
	for i, c := range codes {
		if c < 0 || c >= len(le.ClassNames) {
			return nil, fmt.Errorf("class code %d out of range [0, %d)", c, len(le.ClassNames))
		}
		names[i] = le.ClassNames[c]
	}
	return names, nil
}
