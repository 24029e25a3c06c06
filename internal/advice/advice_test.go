package advice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/riskscope/internal/advice"
	"github.com/Skufu/riskscope/internal/catalog"
	"github.com/Skufu/riskscope/internal/measure"
	"github.com/Skufu/riskscope/internal/risk"
)

func condition(t *testing.T, id string) catalog.Condition {
	t.Helper()
	cond, err := catalog.Default().Get(id)
	require.NoError(t, err)
	return cond
}

func TestRecommend_DiabetesHigh(t *testing.T) {
	m := measure.Measurements{
		"age":            measure.Number(50),
		"bmi":            measure.Number(32),
		"glucose":        measure.Number(110),
		"bp_systolic":    measure.Number(150),
		"family_history": measure.Text("yes"),
	}

	got := advice.Recommend(condition(t, "diabetes"), risk.TierHigh, m)
	assert.Equal(t, []string{
		advice.ConsultNow,
		"Focus on weight management through diet and exercise",
		"Monitor blood glucose levels regularly",
		"Control blood pressure through lifestyle changes",
		"Follow a balanced diet with limited processed sugars",
		"Engage in regular physical activity (150 minutes per week)",
	}, got)
}

func TestRecommend_ThresholdsAreStrict(t *testing.T) {
	m := measure.Measurements{
		"bmi":         measure.Number(30),
		"glucose":     measure.Number(100),
		"bp_systolic": measure.Number(140),
	}

	got := advice.Recommend(condition(t, "diabetes"), risk.TierLow, m)
	assert.Equal(t, []string{
		"Follow a balanced diet with limited processed sugars",
		"Engage in regular physical activity (150 minutes per week)",
	}, got)
}

func TestRecommend_ModeratePrefix(t *testing.T) {
	m := measure.Measurements{
		"cholesterol":    measure.Number(200),
		"bp_systolic":    measure.Number(120),
		"max_heart_rate": measure.Number(95),
	}

	got := advice.Recommend(condition(t, "heart"), risk.TierModerate, m)
	assert.Equal(t, []string{
		advice.ScheduleVisit,
		"Consult a cardiologist about your heart rate",
		"Include omega-3 rich foods in your diet",
		"Quit smoking and limit alcohol consumption",
	}, got)
}

func TestRecommend_HypertensionCategorical(t *testing.T) {
	m := measure.Measurements{
		"bmi":         measure.Number(27),
		"salt_intake": measure.Text("high"),
		"stress":      measure.Text("moderate"),
		"exercise":    measure.Text("low"),
	}

	got := advice.Recommend(condition(t, "hypertension"), risk.TierLow, m)
	assert.Equal(t, []string{
		"Maintain a healthy weight",
		"Reduce sodium intake to less than 2g per day",
		"Increase physical activity to at least 150 minutes per week",
		"Monitor blood pressure regularly",
	}, got)
}

func TestRecommend_MissingOrMistypedValuesDoNotTrigger(t *testing.T) {
	m := measure.Measurements{
		"bmi":         measure.Text("big"),
		"salt_intake": measure.Number(9),
	}

	got := advice.Recommend(condition(t, "hypertension"), risk.TierLow, m)
	assert.Equal(t, []string{"Monitor blood pressure regularly"}, got)
}
