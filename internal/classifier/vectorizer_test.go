package classifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "lower cases words", text: "Coffee SHOP", want: []string{"coffee", "shop"}},
		{name: "drops single characters", text: "a b coffee", want: []string{"coffee"}},
		{name: "splits on punctuation", text: "uber-eats, lunch!", want: []string{"uber", "eats", "lunch"}},
		{name: "keeps digits and underscores", text: "order_42 #7", want: []string{"order_42"}},
		{name: "empty text", text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestFitVectorizer(t *testing.T) {
	v := FitVectorizer([]string{"coffee", "coffee", "rent"})

	require.Equal(t, 2, v.Len())
	assert.Equal(t, map[string]int{"coffee": 0, "rent": 1}, v.Vocabulary)

	// smoothed idf: ln((1+n)/(1+df)) + 1
	assert.InDelta(t, math.Log(4.0/3.0)+1, v.IDF[0], 1e-12)
	assert.InDelta(t, math.Log(2.0)+1, v.IDF[1], 1e-12)
}

func TestFitVectorizer_EmptyVocabulary(t *testing.T) {
	v := FitVectorizer([]string{"", "x", "!"})

	assert.Equal(t, 0, v.Len())
	assert.Empty(t, v.Transform("anything at all"))
	assert.Equal(t, []float64{42}, BuildFeatures(v, 42, "anything"))
}

func TestVectorizer_Transform(t *testing.T) {
	v := FitVectorizer([]string{"coffee shop", "coffee", "rent"})

	t.Run("rows are L2 normalised", func(t *testing.T) {
		row := v.Transform("coffee shop")
		var norm float64
		for _, x := range row {
			norm += x * x
		}
		assert.InDelta(t, 1.0, norm, 1e-12)
	})

	t.Run("weights follow idf", func(t *testing.T) {
		row := v.Transform("coffee shop")
		coffee, shop := v.Vocabulary["coffee"], v.Vocabulary["shop"]
		assert.InDelta(t, v.IDF[shop]/v.IDF[coffee], row[shop]/row[coffee], 1e-12)
	})

	t.Run("repeated terms scale before normalising", func(t *testing.T) {
		assert.InDeltaSlice(t, v.Transform("coffee"), v.Transform("coffee coffee"), 1e-12)
	})

	t.Run("out of vocabulary terms are dropped", func(t *testing.T) {
		assert.InDeltaSlice(t, v.Transform("coffee"), v.Transform("coffee espresso"), 1e-12)
	})

	t.Run("unknown text yields zero vector", func(t *testing.T) {
		assert.Equal(t, make([]float64, v.Len()), v.Transform("espresso"))
	})
}

func TestBuildFeatures(t *testing.T) {
	v := FitVectorizer([]string{"coffee", "rent"})

	features := BuildFeatures(v, -25.5, "coffee")

	require.Len(t, features, 1+v.Len())
	assert.Equal(t, 25.5, features[0])
	assert.InDelta(t, 1.0, features[1+v.Vocabulary["coffee"]], 1e-12)
	assert.Equal(t, 0.0, features[1+v.Vocabulary["rent"]])
}
