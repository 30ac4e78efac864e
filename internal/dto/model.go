package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PredictRequest asks for the most likely category of an expense
type PredictRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=500"`
}

// PredictResponse carries the predicted category
type PredictResponse struct {
	Category string `json:"category"`
}

// TrainResult reports the outcome of a training run. Trained is false when
// there was too little labeled data; the previous model then stays in place.
type TrainResult struct {
	Trained     bool       `json:"trained"`
	SampleCount int        `json:"sample_count"`
	MinSamples  int        `json:"min_samples"`
	Classes     []string   `json:"classes,omitempty"`
	TrainedAt   *time.Time `json:"trained_at,omitempty"`
	DurationMs  int64      `json:"duration_ms"`
}
