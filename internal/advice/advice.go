// Package advice builds the ordered list of recommendations shown next to a
// risk score.
package advice

import (
	"github.com/Skufu/riskscope/internal/catalog"
	"github.com/Skufu/riskscope/internal/measure"
	"github.com/Skufu/riskscope/internal/risk"
)

// Tier prefixes, inserted ahead of everything else.
const (
	ConsultNow    = "Consult with a healthcare professional immediately"
	ScheduleVisit = "Schedule a health checkup within the next month"
)

// Recommend returns cond's triggered advice in table order, followed by its
// general advice, with the tier prefix (if any) at index 0.
//
// Measurements are not re-validated: a missing or mistyped value simply
// leaves its rule untriggered.
func Recommend(cond catalog.Condition, tier risk.Tier, m measure.Measurements) []string {
	out := make([]string, 0, len(cond.Advice)+len(cond.GeneralAdvice)+1)
	switch tier {
	case risk.TierHigh:
		out = append(out, ConsultNow)
	case risk.TierModerate:
		out = append(out, ScheduleVisit)
	}

	for _, rule := range cond.Advice {
		if applies(rule, m) {
			out = append(out, rule.Text)
		}
	}
	return append(out, cond.GeneralAdvice...)
}

func applies(rule catalog.AdviceRule, m measure.Measurements) bool {
	v, ok := m[rule.Factor]
	if !ok {
		return false
	}
	switch rule.Op {
	case catalog.OpGreater:
		x, ok := v.Float()
		return ok && x > rule.Threshold
	case catalog.OpLess:
		x, ok := v.Float()
		return ok && x < rule.Threshold
	case catalog.OpEqual:
		s, ok := v.Str()
		return ok && s == rule.Value
	}
	return false
}
