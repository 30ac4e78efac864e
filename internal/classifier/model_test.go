package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func householdSamples() []Sample {
	return []Sample{
		{Amount: 10, Description: "coffee", Category: "food"},
		{Amount: 12, Description: "coffee", Category: "food"},
		{Amount: 8, Description: "coffee beans", Category: "food"},
		{Amount: 500, Description: "rent", Category: "housing"},
		{Amount: 520, Description: "rent", Category: "housing"},
	}
}

func TestTrain_PredictsCoffeeAsFood(t *testing.T) {
	samples := []Sample{
		{Amount: 10, Description: "coffee", Category: "food"},
		{Amount: 12, Description: "coffee", Category: "food"},
		{Amount: 500, Description: "rent", Category: "housing"},
	}

	model, err := Train(samples, WithMinSamples(1))
	require.NoError(t, err)

	label, err := model.Predict(11, "coffee")
	require.NoError(t, err)
	assert.Equal(t, "food", label)
}

func TestTrain_TrainingExamplesPredictTheirOwnLabel(t *testing.T) {
	samples := householdSamples()

	model, err := Train(samples)
	require.NoError(t, err)

	for _, s := range samples {
		label, err := model.Predict(s.Amount, s.Description)
		require.NoError(t, err)
		assert.Equal(t, s.Category, label, "sample %+v", s)
	}
}

func TestTrain_RefusesSmallHistory(t *testing.T) {
	_, err := Train(householdSamples()[:4])
	assert.ErrorIs(t, err, ErrInsufficientSamples)

	_, err = Train(nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestTrain_StampsModel(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	model, err := Train(householdSamples(), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	assert.Equal(t, fixed, model.TrainedAt)
	assert.Equal(t, 5, model.SampleCount)
	assert.Equal(t, []string{"food", "housing"}, model.Classes())
	assert.NoError(t, model.Validate())
}

func TestTrain_InvalidAlpha(t *testing.T) {
	_, err := Train(householdSamples(), WithAlpha(-1))
	assert.ErrorIs(t, err, ErrInvalidAlpha)
}

func TestModel_PredictWithoutTraining(t *testing.T) {
	var model *Model
	_, err := model.Predict(10, "coffee")
	assert.ErrorIs(t, err, ErrModelNotTrained)

	_, err = (&Model{}).Predict(10, "coffee")
	assert.ErrorIs(t, err, ErrModelNotTrained)
}

func TestModel_PredictIgnoresUnknownWords(t *testing.T) {
	model, err := Train(householdSamples())
	require.NoError(t, err)

	label, err := model.Predict(510, "rent for march")
	require.NoError(t, err)
	assert.Equal(t, "housing", label)
}

func TestModel_Validate(t *testing.T) {
	model, err := Train(householdSamples())
	require.NoError(t, err)

	broken := *model
	broken.Vectorizer = &Vectorizer{Vocabulary: map[string]int{}, IDF: nil}
	assert.ErrorIs(t, broken.Validate(), ErrCorruptModel)

	assert.ErrorIs(t, (&Model{}).Validate(), ErrModelNotTrained)
}
