// Package fallback walks an ordered list of candidates until one of them
// produces a final answer.
package fallback

import (
	"context"
	"errors"

	"github.com/bookit/bookit-web/pkg/logger"
	"go.uber.org/zap"
)

// ErrExhausted is returned when every candidate asked for the next one
var ErrExhausted = errors.New("all candidates exhausted")

// Decision tells Sequence what to do after a candidate was tried
type Decision int

const (
	// Stop ends the walk and returns the candidate's result
	Stop Decision = iota
	// TryNext moves on to the following candidate
	TryNext
)

// Attempt tries a single candidate. A non-nil error aborts the walk immediately.
type Attempt[C, R any] func(ctx context.Context, index int, candidate C) (R, Decision, error)

// Sequence tries candidates strictly in order, one at a time.
// It returns the result of the first candidate that decides to Stop, or the
// last result with ErrExhausted when every candidate asked for the next one.
// tried counts the candidates actually attempted.
func Sequence[C, R any](ctx context.Context, operation string, candidates []C, attempt Attempt[C, R]) (result R, tried int, err error) {
	for i, candidate := range candidates {
		select {
		case <-ctx.Done():
			return result, tried, ctx.Err()
		default:
		}

		res, decision, attemptErr := attempt(ctx, i, candidate)
		tried++
		result = res

		if attemptErr != nil {
			logger.Warn("Fallback candidate failed, aborting",
				zap.String("operation", operation),
				zap.Int("candidate", i+1),
				zap.Error(attemptErr))
			return result, tried, attemptErr
		}

		if decision == Stop {
			if i > 0 {
				logger.Info("Fallback settled on later candidate",
					zap.String("operation", operation),
					zap.Int("candidate", i+1))
			}
			return result, tried, nil
		}

		logger.Debug("Fallback candidate rejected, trying next",
			zap.String("operation", operation),
			zap.Int("candidate", i+1),
			zap.Int("remaining", len(candidates)-i-1))
	}

	if len(candidates) > 0 {
		logger.Warn("Fallback exhausted all candidates",
			zap.String("operation", operation),
			zap.Int("candidates", len(candidates)))
	}

	return result, tried, ErrExhausted
}
