package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/util"
)

type (
	BackoffType string

	// RetryPolicy configures the resilience wrapper. It is read once per
	// call from process-wide configuration and never mutated
	RetryPolicy struct {
		BackoffType   BackoffType `json:"backoff_type,omitempty"`
		MaxAttempts   int         `json:"max_attempts"`
		BackoffMs     int64       `json:"backoff_ms"`
		BackoffFactor float64     `json:"backoff_factor"`
	}
)

const (
	BackoffTypeFixed       BackoffType = "fixed"
	BackoffTypeLinear      BackoffType = "linear"
	BackoffTypeExponential BackoffType = "exponential"
)

var (
	ErrInvalidMaxAttempts   = errors.New("max attempts must be positive")
	ErrInvalidBackoff       = errors.New("backoff must be positive")
	ErrInvalidBackoffFactor = errors.New("backoff factor must be >= 1")
	ErrInvalidBackoffType   = errors.New("invalid backoff type")
)

var validBackoffTypes = util.SetOf(
	BackoffTypeFixed,
	BackoffTypeLinear,
	BackoffTypeExponential,
)

// Validate checks that the policy is internally consistent
func (p *RetryPolicy) Validate() error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if p.BackoffMs <= 0 {
		return ErrInvalidBackoff
	}
	if p.BackoffFactor < 1 {
		return ErrInvalidBackoffFactor
	}
	if !validBackoffTypes.Contains(p.BackoffType) {
		return fmt.Errorf("%w: %s", ErrInvalidBackoffType, p.BackoffType)
	}
	return nil
}

// Delay returns the sleep before retry number attempt, where the first
// retry is attempt 1. Exponential backoff multiplies the base delay by
// the factor after every failed attempt
func (p *RetryPolicy) Delay(attempt int) time.Duration {
	base := time.Duration(p.BackoffMs) * time.Millisecond
	if attempt <= 1 {
		return base
	}
	switch p.BackoffType {
	case BackoffTypeFixed:
		return base
	case BackoffTypeLinear:
		return base * time.Duration(attempt)
	default:
		d := base
		for i := 1; i < attempt; i++ {
			d = time.Duration(float64(d) * p.BackoffFactor)
		}
		return d
	}
}
