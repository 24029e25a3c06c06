// Package catalog defines the static set of conditions that can be scored:
// their weighted risk factors, advice tables and symptom lists.
package catalog

import (
	"errors"
	"fmt"
	"math"
)

// RuleKind selects how a factor's measurement turns into a contribution.
type RuleKind string

const (
	// KindAbove gives full credit when value > threshold, value/threshold otherwise.
	KindAbove RuleKind = "above"
	// KindBelow gives full credit when value < threshold, threshold/value otherwise.
	KindBelow RuleKind = "below"
	// KindCategorical looks the value up in Levels; unknown values contribute 0.
	KindCategorical RuleKind = "categorical"
)

// Rule is the comparison attached to a single risk factor.
type Rule struct {
	Kind      RuleKind           `yaml:"kind" json:"kind"`
	Threshold float64            `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Levels    map[string]float64 `yaml:"levels,omitempty" json:"levels,omitempty"`
}

// Above builds a greater-than threshold rule.
func Above(threshold float64) Rule {
	return Rule{Kind: KindAbove, Threshold: threshold}
}

// Below builds a less-than threshold rule.
func Below(threshold float64) Rule {
	return Rule{Kind: KindBelow, Threshold: threshold}
}

// Categorical builds a lookup rule.
func Categorical(levels map[string]float64) Rule {
	return Rule{Kind: KindCategorical, Levels: levels}
}

// Factor is a named, weighted risk factor.
type Factor struct {
	Name   string  `yaml:"name" json:"name"`
	Label  string  `yaml:"label" json:"label"`
	Weight float64 `yaml:"weight" json:"weight"`
	Rule   Rule    `yaml:"rule" json:"rule"`
}

// Op is the comparison used by an advice predicate.
type Op string

const (
	OpGreater Op = "gt"
	OpLess    Op = "lt"
	OpEqual   Op = "eq"
)

// AdviceRule emits Text when the measurement for Factor satisfies Op.
// Threshold is used by gt/lt, Value by eq.
type AdviceRule struct {
	Factor    string  `yaml:"factor" json:"factor"`
	Op        Op      `yaml:"op" json:"op"`
	Threshold float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Value     string  `yaml:"value,omitempty" json:"value,omitempty"`
	Text      string  `yaml:"text" json:"text"`
}

// Condition is one scorable entry of the catalog.
type Condition struct {
	ID            string       `yaml:"id" json:"id"`
	Name          string       `yaml:"name" json:"name"`
	Factors       []Factor     `yaml:"factors" json:"factors"`
	Symptoms      []string     `yaml:"symptoms" json:"symptoms"`
	Advice        []AdviceRule `yaml:"advice" json:"advice"`
	GeneralAdvice []string     `yaml:"general_advice" json:"generalAdvice"`
}

// Catalog is an immutable, ordered collection of conditions.
type Catalog struct {
	conditions []Condition
	byID       map[string]int
}

// UnknownConditionError is returned when a condition id is not in the catalog.
type UnknownConditionError struct {
	ID string
}

func (e *UnknownConditionError) Error() string {
	return fmt.Sprintf("unknown condition %q", e.ID)
}

// ErrInvalidCatalog wraps every validation failure raised by New.
var ErrInvalidCatalog = errors.New("invalid catalog")

// New validates conds and returns a catalog preserving their order.
func New(conds ...Condition) (*Catalog, error) {
	c := &Catalog{
		conditions: make([]Condition, 0, len(conds)),
		byID:       make(map[string]int, len(conds)),
	}
	for _, cond := range conds {
		if err := validate(cond); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		if _, dup := c.byID[cond.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate condition id %q", ErrInvalidCatalog, cond.ID)
		}
		c.byID[cond.ID] = len(c.conditions)
		c.conditions = append(c.conditions, clone(cond))
	}
	return c, nil
}

// List returns the conditions in catalog order.
func (c *Catalog) List() []Condition {
	out := make([]Condition, len(c.conditions))
	for i, cond := range c.conditions {
		out[i] = clone(cond)
	}
	return out
}

// Get looks up a condition by id.
func (c *Catalog) Get(id string) (Condition, error) {
	i, ok := c.byID[id]
	if !ok {
		return Condition{}, &UnknownConditionError{ID: id}
	}
	return clone(c.conditions[i]), nil
}

// AllSymptoms returns every distinct symptom, in first-seen catalog order.
func (c *Catalog) AllSymptoms() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, cond := range c.conditions {
		for _, s := range cond.Symptoms {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func validate(cond Condition) error {
	if cond.ID == "" {
		return errors.New("condition id is empty")
	}
	if cond.Name == "" {
		return fmt.Errorf("condition %q: name is empty", cond.ID)
	}
	if len(cond.Factors) == 0 {
		return fmt.Errorf("condition %q: no risk factors", cond.ID)
	}

	names := make(map[string]struct{}, len(cond.Factors))
	for _, f := range cond.Factors {
		if f.Name == "" {
			return fmt.Errorf("condition %q: factor name is empty", cond.ID)
		}
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("condition %q: duplicate factor %q", cond.ID, f.Name)
		}
		names[f.Name] = struct{}{}

		if !(f.Weight > 0 && f.Weight <= 1) {
			return fmt.Errorf("condition %q: factor %q weight %v outside (0, 1]", cond.ID, f.Name, f.Weight)
		}
		switch f.Rule.Kind {
		case KindAbove, KindBelow:
			if !(f.Rule.Threshold > 0) || math.IsInf(f.Rule.Threshold, 0) {
				return fmt.Errorf("condition %q: factor %q threshold must be a positive number", cond.ID, f.Name)
			}
		case KindCategorical:
			if len(f.Rule.Levels) == 0 {
				return fmt.Errorf("condition %q: factor %q has no categorical levels", cond.ID, f.Name)
			}
			for level, score := range f.Rule.Levels {
				if score < 0 || score > 1 || math.IsNaN(score) {
					return fmt.Errorf("condition %q: factor %q level %q score %v outside [0, 1]", cond.ID, f.Name, level, score)
				}
			}
		default:
			return fmt.Errorf("condition %q: factor %q has unknown rule kind %q", cond.ID, f.Name, f.Rule.Kind)
		}
	}

	symptoms := make(map[string]struct{}, len(cond.Symptoms))
	for _, s := range cond.Symptoms {
		if _, dup := symptoms[s]; dup {
			return fmt.Errorf("condition %q: duplicate symptom %q", cond.ID, s)
		}
		symptoms[s] = struct{}{}
	}

	for _, a := range cond.Advice {
		switch a.Op {
		case OpGreater, OpLess, OpEqual:
		default:
			return fmt.Errorf("condition %q: advice for %q has unknown op %q", cond.ID, a.Factor, a.Op)
		}
		if a.Text == "" {
			return fmt.Errorf("condition %q: advice for %q has no text", cond.ID, a.Factor)
		}
	}
	return nil
}

// clone copies the slices and maps of cond so callers cannot mutate the catalog.
func clone(cond Condition) Condition {
	out := cond
	out.Factors = make([]Factor, len(cond.Factors))
	for i, f := range cond.Factors {
		if f.Rule.Levels != nil {
			levels := make(map[string]float64, len(f.Rule.Levels))
			for k, v := range f.Rule.Levels {
				levels[k] = v
			}
			f.Rule.Levels = levels
		}
		out.Factors[i] = f
	}
	out.Symptoms = append([]string(nil), cond.Symptoms...)
	out.Advice = append([]AdviceRule(nil), cond.Advice...)
	out.GeneralAdvice = append([]string(nil), cond.GeneralAdvice...)
	return out
}
