package classifier

import (
	"fmt"
)

// ClassMetrics are the precision, recall and F1 of one category
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

// Report summarises how well a model reproduces a labeled set
type Report struct {
	Accuracy    float64                 `json:"accuracy"`
	SampleCount int                     `json:"sample_count"`
	Categories  map[string]ClassMetrics `json:"categories"`
	MacroAvg    ClassMetrics            `json:"macro_avg"`
	WeightedAvg ClassMetrics            `json:"weighted_avg"`
}

// Evaluate predicts every sample and scores the predictions against the
// recorded categories. Ratios with a zero denominator are reported as 0.
// The model is not modified.
func Evaluate(m *Model, samples []Sample) (*Report, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	truth := make([]string, len(samples))
	predicted := make([]string, len(samples))
	for i, s := range samples {
		label, err := m.Predict(s.Amount, s.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to predict sample %d: %w", i, err)
		}
		truth[i] = s.Category
		predicted[i] = label
	}

	return score(truth, predicted), nil
}

func score(truth, predicted []string) *Report {
	labels := uniqueSorted(append(append([]string(nil), truth...), predicted...))

	truePositive := make(map[string]int, len(labels))
	predictedCount := make(map[string]int, len(labels))
	support := make(map[string]int, len(labels))

	correct := 0
	for i := range truth {
		support[truth[i]]++
		predictedCount[predicted[i]]++
		if truth[i] == predicted[i] {
			truePositive[truth[i]]++
			correct++
		}
	}

	report := &Report{
		Accuracy:    float64(correct) / float64(len(truth)),
		SampleCount: len(truth),
		Categories:  make(map[string]ClassMetrics, len(labels)),
	}

	var macro, weighted ClassMetrics
	for _, label := range labels {
		precision := ratio(truePositive[label], predictedCount[label])
		recall := ratio(truePositive[label], support[label])
		metrics := ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        harmonicMean(precision, recall),
			Support:   support[label],
		}
		report.Categories[label] = metrics

		macro.Precision += metrics.Precision
		macro.Recall += metrics.Recall
		macro.F1 += metrics.F1

		w := float64(metrics.Support)
		weighted.Precision += w * metrics.Precision
		weighted.Recall += w * metrics.Recall
		weighted.F1 += w * metrics.F1
	}

	n := float64(len(labels))
	total := float64(len(truth))
	report.MacroAvg = ClassMetrics{
		Precision: macro.Precision / n,
		Recall:    macro.Recall / n,
		F1:        macro.F1 / n,
		Support:   len(truth),
	}
	report.WeightedAvg = ClassMetrics{
		Precision: weighted.Precision / total,
		Recall:    weighted.Recall / total,
		F1:        weighted.F1 / total,
		Support:   len(truth),
	}

	return report
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func harmonicMean(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	return 2 * a * b / (a + b)
}
