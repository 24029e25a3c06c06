package symptom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/riskscope/internal/catalog"
	"github.com/Skufu/riskscope/internal/symptom"
)

func TestFind_ChestPain(t *testing.T) {
	got, err := symptom.Find(catalog.Default(), []string{"Chest pain"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Heart Disease", got[0].Condition)
	assert.Equal(t, "Hypertension", got[1].Condition)
	for _, m := range got {
		assert.Equal(t, 1, m.Matches)
		assert.Equal(t, 17, m.Percentage)
		assert.Equal(t, []string{"Chest pain"}, m.Symptoms)
	}
}

func TestFind_FullListIsHundredPercent(t *testing.T) {
	cat := catalog.Default()
	diabetes, err := cat.Get("diabetes")
	require.NoError(t, err)

	got, err := symptom.Find(cat, diabetes.Symptoms)
	require.NoError(t, err)

	// Fatigue is shared with heart disease.
	require.Len(t, got, 2)
	assert.Equal(t, "diabetes", got[0].ConditionID)
	assert.Equal(t, 6, got[0].Matches)
	assert.Equal(t, 100, got[0].Percentage)
	assert.Equal(t, "heart", got[1].ConditionID)
	assert.Equal(t, 1, got[1].Matches)
}

func TestFind_CatalogOrderAndRounding(t *testing.T) {
	got, err := symptom.Find(catalog.Default(), []string{"Dizziness", "Fatigue", "Headaches", "Nosebleeds"})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"diabetes", "heart", "hypertension"}, []string{got[0].ConditionID, got[1].ConditionID, got[2].ConditionID})
	assert.Equal(t, 17, got[0].Percentage) // 1/6
	assert.Equal(t, 33, got[1].Percentage) // 2/6
	assert.Equal(t, 50, got[2].Percentage) // 3/6
}

func TestFind_NoOverlap(t *testing.T) {
	got, err := symptom.Find(catalog.Default(), []string{"Hiccups"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFind_DuplicatesCountOnce(t *testing.T) {
	got, err := symptom.Find(catalog.Default(), []string{"Nosebleeds", "Nosebleeds"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Matches)
}

func TestFind_EmptySelection(t *testing.T) {
	_, err := symptom.Find(catalog.Default(), nil)
	assert.ErrorIs(t, err, symptom.ErrEmptySelection)

	_, err = symptom.Find(catalog.Default(), []string{})
	assert.ErrorIs(t, err, symptom.ErrEmptySelection)
}
