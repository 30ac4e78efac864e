package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrNoSamples       = errors.New("no training samples")
	ErrLengthMismatch  = errors.New("feature rows and labels differ in length")
	ErrRaggedFeatures  = errors.New("feature rows differ in width")
	ErrNegativeFeature = errors.New("multinomial features must be non-negative")
	ErrInvalidAlpha    = errors.New("smoothing alpha must be positive")
	ErrDimension       = errors.New("feature vector has wrong width")
)

// NaiveBayes is a fitted multinomial naive-Bayes classifier.
// Classes are kept in sorted order; the other slices are indexed the same way.
type NaiveBayes struct {
	Alpha          float64     `json:"alpha"`
	Classes        []string    `json:"classes"`
	ClassCount     []int       `json:"class_count"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// FitNaiveBayes estimates class priors from label frequencies and per-class
// feature probabilities with additive smoothing alpha.
func FitNaiveBayes(x [][]float64, y []string, alpha float64) (*NaiveBayes, error) {
	if len(x) == 0 {
		return nil, ErrNoSamples
	}
	if len(x) != len(y) {
		return nil, ErrLengthMismatch
	}
	if alpha <= 0 {
		return nil, ErrInvalidAlpha
	}

	width := len(x[0])
	for _, row := range x {
		if len(row) != width {
			return nil, ErrRaggedFeatures
		}
		for _, value := range row {
			if value < 0 {
				return nil, ErrNegativeFeature
			}
		}
	}

	classes := uniqueSorted(y)
	index := make(map[string]int, len(classes))
	for i, class := range classes {
		index[class] = i
	}

	classCount := make([]int, len(classes))
	featureCount := make([][]float64, len(classes))
	for i := range featureCount {
		featureCount[i] = make([]float64, width)
	}

	for i, row := range x {
		c := index[y[i]]
		classCount[c]++
		for j, value := range row {
			featureCount[c][j] += value
		}
	}

	nb := &NaiveBayes{
		Alpha:          alpha,
		Classes:        classes,
		ClassCount:     classCount,
		ClassLogPrior:  make([]float64, len(classes)),
		FeatureLogProb: make([][]float64, len(classes)),
	}

	total := float64(len(y))
	for c := range classes {
		nb.ClassLogPrior[c] = math.Log(float64(classCount[c]) / total)

		var smoothedTotal float64
		for _, count := range featureCount[c] {
			smoothedTotal += count + alpha
		}
		logTotal := math.Log(smoothedTotal)

		nb.FeatureLogProb[c] = make([]float64, width)
		for j, count := range featureCount[c] {
			nb.FeatureLogProb[c][j] = math.Log(count+alpha) - logTotal
		}
	}

	return nb, nil
}

// Width is the number of features the classifier expects
func (nb *NaiveBayes) Width() int {
	if len(nb.FeatureLogProb) == 0 {
		return 0
	}
	return len(nb.FeatureLogProb[0])
}

// JointLogLikelihood returns log P(c) + sum_j x_j log P(j|c) for every class
func (nb *NaiveBayes) JointLogLikelihood(features []float64) ([]float64, error) {
	if len(features) != nb.Width() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(features), nb.Width())
	}

	scores := make([]float64, len(nb.Classes))
	for c := range nb.Classes {
		score := nb.ClassLogPrior[c]
		for j, value := range features {
			if value != 0 {
				score += value * nb.FeatureLogProb[c][j]
			}
		}
		scores[c] = score
	}

	return scores, nil
}

// Predict returns the class with the highest joint log-likelihood. Ties go to
// the class that sorts first.
func (nb *NaiveBayes) Predict(features []float64) (string, error) {
	scores, err := nb.JointLogLikelihood(features)
	if err != nil {
		return "", err
	}

	best := 0
	for c := 1; c < len(scores); c++ {
		if scores[c] > scores[best] {
			best = c
		}
	}

	return nb.Classes[best], nil
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
