// Package risk turns a measurement record into a bounded risk score and tier
// for one catalog condition.
package risk

import (
	"fmt"
	"math"

	"github.com/Skufu/riskscope/internal/catalog"
	"github.com/Skufu/riskscope/internal/measure"
)

// Contribution is one factor's share of a score, as drawn in the breakdown chart.
type Contribution struct {
	Factor string  `json:"factor"`
	Label  string  `json:"label"`
	Raw    float64 `json:"raw"`
	Weight float64 `json:"weight"`
	// Weighted is Raw * Weight.
	Weighted float64 `json:"weighted"`
}

// Result is the outcome of scoring one condition.
type Result struct {
	Score     int            `json:"score"`
	Tier      Tier           `json:"tier"`
	Breakdown []Contribution `json:"breakdown"`
}

// Scorer scores conditions looked up in a catalog.
type Scorer struct {
	catalog *catalog.Catalog
}

// NewScorer creates a Scorer over c.
func NewScorer(c *catalog.Catalog) *Scorer {
	return &Scorer{catalog: c}
}

// Score looks up conditionID and evaluates m against it.
func (s *Scorer) Score(conditionID string, m measure.Measurements) (Result, error) {
	cond, err := s.catalog.Get(conditionID)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(cond, m)
}

// Evaluate computes the weighted score for cond.
//
// Partial credit below a threshold is linear and is not clamped per factor;
// only the aggregate is clamped to [0, 100] before rounding.
func Evaluate(cond catalog.Condition, m measure.Measurements) (Result, error) {
	breakdown := make([]Contribution, 0, len(cond.Factors))
	var sum float64

	for _, f := range cond.Factors {
		v, ok := m[f.Name]
		if !ok {
			return Result{}, &MissingFactorError{Condition: cond.ID, Factor: f.Name}
		}
		raw, err := contribution(f.Rule, v)
		if err != nil {
			return Result{}, &InvalidValueError{Condition: cond.ID, Factor: f.Name, Reason: err.Error()}
		}
		weighted := raw * f.Weight
		sum += weighted
		breakdown = append(breakdown, Contribution{
			Factor:   f.Name,
			Label:    f.Label,
			Raw:      raw,
			Weight:   f.Weight,
			Weighted: weighted,
		})
	}

	score := int(math.Round(math.Max(0, math.Min(sum*100, 100))))
	return Result{
		Score:     score,
		Tier:      TierFromScore(score),
		Breakdown: breakdown,
	}, nil
}

func contribution(rule catalog.Rule, v measure.Value) (float64, error) {
	switch rule.Kind {
	case catalog.KindAbove, catalog.KindBelow:
		x, ok := v.Float()
		if !ok {
			return 0, fmt.Errorf("expected a number, got %s %q", v.Kind(), v.String())
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("expected a finite number, got %v", x)
		}
		if rule.Kind == catalog.KindAbove {
			if x > rule.Threshold {
				return 1, nil
			}
			return x / rule.Threshold, nil
		}
		if x < rule.Threshold {
			return 1, nil
		}
		return rule.Threshold / x, nil

	case catalog.KindCategorical:
		s, ok := v.Str()
		if !ok {
			return 0, fmt.Errorf("expected a category, got %s %q", v.Kind(), v.String())
		}
		// Unrecognised categories score zero rather than failing.
		return rule.Levels[s], nil

	default:
		return 0, fmt.Errorf("unsupported rule kind %q", rule.Kind)
	}
}
