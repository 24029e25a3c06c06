// Package symptom compares a set of selected symptoms against every
// condition in the catalog.
package symptom

import (
	"errors"
	"math"

	"github.com/Skufu/riskscope/internal/catalog"
)

// ErrEmptySelection is returned when Find is called without any symptoms.
var ErrEmptySelection = errors.New("select at least one symptom")

// Match is the overlap between the selection and one condition.
type Match struct {
	ConditionID string   `json:"conditionId"`
	Condition   string   `json:"condition"`
	Matches     int      `json:"matches"`
	Percentage  int      `json:"percentage"`
	Symptoms    []string `json:"symptoms"`
}

// Lister is the part of the catalog Find needs.
type Lister interface {
	List() []catalog.Condition
}

// Find returns one entry per condition sharing at least one symptom with
// selected, in catalog order. Duplicate selections count once.
func Find(c Lister, selected []string) ([]Match, error) {
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}
	set := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		set[s] = struct{}{}
	}

	out := []Match{}
	for _, cond := range c.List() {
		var hits []string
		for _, s := range cond.Symptoms {
			if _, ok := set[s]; ok {
				hits = append(hits, s)
			}
		}
		if len(hits) == 0 {
			continue
		}
		out = append(out, Match{
			ConditionID: cond.ID,
			Condition:   cond.Name,
			Matches:     len(hits),
			Percentage:  int(math.Round(float64(len(hits)) / float64(len(cond.Symptoms)) * 100)),
			Symptoms:    hits,
		})
	}
	return out, nil
}
