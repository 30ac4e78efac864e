package classifier

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultAlpha is the additive (Laplace) smoothing used when none is given
	DefaultAlpha = 1.0

	// DefaultMinSamples is the smallest labeled history Train accepts
	DefaultMinSamples = 5
)

var (
	ErrInsufficientSamples = errors.New("not enough labeled samples to train")
	ErrModelNotTrained     = errors.New("model is not trained")
	ErrCorruptModel        = errors.New("model artifact is inconsistent")
)

// Sample is one labeled transaction used for training or evaluation
type Sample struct {
	Amount      float64
	Description string
	Category    string
}

// Model pairs a fitted vectorizer with the classifier trained on its output.
// It is the unit that gets persisted and replaced on every retrain.
type Model struct {
	Vectorizer  *Vectorizer `json:"vectorizer"`
	Classifier  *NaiveBayes `json:"classifier"`
	SampleCount int         `json:"sample_count"`
	TrainedAt   time.Time   `json:"trained_at"`
}

type trainOptions struct {
	alpha      float64
	minSamples int
	now        func() time.Time
}

// TrainOption customises Train
type TrainOption func(*trainOptions)

// WithAlpha overrides the smoothing parameter
func WithAlpha(alpha float64) TrainOption {
	return func(o *trainOptions) {
		o.alpha = alpha
	}
}

// WithMinSamples overrides the minimum number of labeled samples
func WithMinSamples(n int) TrainOption {
	return func(o *trainOptions) {
		o.minSamples = n
	}
}

// WithClock sets the time source stamped onto the model
func WithClock(now func() time.Time) TrainOption {
	return func(o *trainOptions) {
		o.now = now
	}
}

// Train fits the vectorizer on every description, builds [amount, tfidf...]
// rows and fits the classifier against the sample categories.
func Train(samples []Sample, opts ...TrainOption) (*Model, error) {
	options := trainOptions{
		alpha:      DefaultAlpha,
		minSamples: DefaultMinSamples,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if len(samples) < options.minSamples {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientSamples, len(samples), options.minSamples)
	}

	docs := make([]string, len(samples))
	labels := make([]string, len(samples))
	for i, s := range samples {
		docs[i] = s.Description
		labels[i] = s.Category
	}

	vectorizer := FitVectorizer(docs)

	rows := make([][]float64, len(samples))
	for i, s := range samples {
		rows[i] = BuildFeatures(vectorizer, s.Amount, s.Description)
	}

	nb, err := FitNaiveBayes(rows, labels, options.alpha)
	if err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}

	return &Model{
		Vectorizer:  vectorizer,
		Classifier:  nb,
		SampleCount: len(samples),
		TrainedAt:   options.now().UTC(),
	}, nil
}

// Predict returns the most likely category for a transaction
func (m *Model) Predict(amount float64, description string) (string, error) {
	if m == nil || m.Vectorizer == nil || m.Classifier == nil {
		return "", ErrModelNotTrained
	}

	return m.Classifier.Predict(BuildFeatures(m.Vectorizer, amount, description))
}

// Classes lists the categories the model can predict, in sorted order
func (m *Model) Classes() []string {
	if m == nil || m.Classifier == nil {
		return nil
	}
	return append([]string(nil), m.Classifier.Classes...)
}

// Validate checks that the vectorizer and classifier agree on dimensions
func (m *Model) Validate() error {
	if m == nil || m.Vectorizer == nil || m.Classifier == nil {
		return ErrModelNotTrained
	}

	nb := m.Classifier
	classes := len(nb.Classes)
	if classes == 0 || len(nb.ClassLogPrior) != classes || len(nb.FeatureLogProb) != classes {
		return fmt.Errorf("%w: class tables disagree", ErrCorruptModel)
	}

	if len(m.Vectorizer.Vocabulary) != m.Vectorizer.Len() {
		return fmt.Errorf("%w: vocabulary and idf disagree", ErrCorruptModel)
	}

	want := 1 + m.Vectorizer.Len()
	for _, row := range nb.FeatureLogProb {
		if len(row) != want {
			return fmt.Errorf("%w: classifier width %d, vectorizer width %d", ErrCorruptModel, len(row), want)
		}
	}

	return nil
}
