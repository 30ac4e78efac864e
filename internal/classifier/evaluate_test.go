package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_RoundTrip(t *testing.T) {
	samples := householdSamples()

	model, err := Train(samples)
	require.NoError(t, err)

	report, err := Evaluate(model, samples)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, report.Accuracy, 0.0)
	assert.LessOrEqual(t, report.Accuracy, 1.0)
	assert.Equal(t, 5, report.SampleCount)
	for _, class := range model.Classes() {
		assert.Contains(t, report.Categories, class)
	}

	assert.Equal(t, 1.0, report.Accuracy)
	assert.Equal(t, ClassMetrics{Precision: 1, Recall: 1, F1: 1, Support: 3}, report.Categories["food"])
	assert.Equal(t, ClassMetrics{Precision: 1, Recall: 1, F1: 1, Support: 2}, report.Categories["housing"])
}

func TestEvaluate_DoesNotModifyModel(t *testing.T) {
	model, err := Train(householdSamples())
	require.NoError(t, err)

	before := *model.Classifier
	_, err = Evaluate(model, []Sample{{Amount: 9, Description: "tea", Category: "drinks"}})
	require.NoError(t, err)

	assert.Equal(t, before, *model.Classifier)
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := Evaluate(nil, nil)
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = Evaluate(nil, householdSamples())
	assert.ErrorIs(t, err, ErrModelNotTrained)
}

func TestScore(t *testing.T) {
	truth := []string{"food", "food", "housing", "travel"}
	predicted := []string{"food", "housing", "housing", "food"}

	report := score(truth, predicted)

	assert.InDelta(t, 0.5, report.Accuracy, 1e-12)

	food := report.Categories["food"]
	assert.InDelta(t, 0.5, food.Precision, 1e-12)
	assert.InDelta(t, 0.5, food.Recall, 1e-12)
	assert.InDelta(t, 0.5, food.F1, 1e-12)
	assert.Equal(t, 2, food.Support)

	housing := report.Categories["housing"]
	assert.InDelta(t, 0.5, housing.Precision, 1e-12)
	assert.InDelta(t, 1.0, housing.Recall, 1e-12)
	assert.InDelta(t, 2.0/3.0, housing.F1, 1e-12)

	// never predicted: zero division reports 0
	travel := report.Categories["travel"]
	assert.Equal(t, ClassMetrics{Support: 1}, travel)

	assert.InDelta(t, (0.5+0.5+0)/3, report.MacroAvg.Precision, 1e-12)
	assert.InDelta(t, (2*0.5+1*0.5+1*0)/4, report.WeightedAvg.Precision, 1e-12)
	assert.Equal(t, 4, report.WeightedAvg.Support)
}
