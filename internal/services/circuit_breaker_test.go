package services

import (
	"testing"
	"time"

	"expense-tracker/internal/models"
	"expense-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("bank", CircuitBreakerConfig{MaxFailures: 3, ResetTimeout: time.Hour, HalfOpenMaxSucc: 1}, nil)

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
		assert.False(t, cb.IsOpen())
	}
	assert.Equal(t, 2, cb.GetFailureCount())

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker("bank", CircuitBreakerConfig{MaxFailures: 3, ResetTimeout: time.Hour}, nil)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()

	assert.Equal(t, 0, cb.GetFailureCount())
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker("storage", CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: 10 * time.Millisecond, HalfOpenMaxSucc: 2}, nil)

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	time.Sleep(20 * time.Millisecond)

	assert.False(t, cb.IsOpen())
	assert.Equal(t, StateHalfOpen, cb.GetState())

	cb.RecordSuccess()
	assert.Equal(t, StateHalfOpen, cb.GetState())
	cb.RecordSuccess()
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("storage", CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: 10 * time.Millisecond, HalfOpenMaxSucc: 1}, nil)

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	assert.False(t, cb.IsOpen())

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker("bank", CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Hour}, nil)

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	cb.Reset()
	assert.False(t, cb.IsOpen())
	assert.Equal(t, 0, cb.GetFailureCount())
}

func TestCircuitBreaker_PublishesStateGauge(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := service_mocks.NewMockMetricsRecorderInterface(ctrl)

	tags := map[string]string{"service": "bank"}
	metrics.EXPECT().RecordGauge(MetricCircuitBreakerState, float64(StateOpen), tags)
	metrics.EXPECT().RecordGauge(MetricCircuitBreakerState, float64(StateClosed), tags)

	cb := NewCircuitBreaker("bank", CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Hour}, metrics)
	cb.RecordFailure()
	cb.Reset()
}

func TestCircuitBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half_open", StateHalfOpen.String())
	assert.Equal(t, "unknown", models.CircuitBreakerState(7).String())
}
