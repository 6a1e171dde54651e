package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_StopsOnFirstFinalAnswer(t *testing.T) {
	candidates := []string{"a", "b", "c", "d"}
	var seen []string

	got, tried, err := Sequence(context.Background(), "test", candidates,
		func(_ context.Context, _ int, c string) (string, Decision, error) {
			seen = append(seen, c)
			if c == "b" {
				return "answer-" + c, Stop, nil
			}
			return "miss-" + c, TryNext, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "answer-b", got)
	assert.Equal(t, 2, tried)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestSequence_Exhausted(t *testing.T) {
	got, tried, err := Sequence(context.Background(), "test", []int{1, 2, 3},
		func(_ context.Context, _ int, c int) (int, Decision, error) {
			return c * 10, TryNext, nil
		})

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 30, got, "last result is kept")
	assert.Equal(t, 3, tried)
}

func TestSequence_ErrorAborts(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0

	_, tried, err := Sequence(context.Background(), "test", []int{1, 2, 3},
		func(_ context.Context, _ int, _ int) (int, Decision, error) {
			calls++
			return 0, TryNext, boom
		})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, tried)
	assert.Equal(t, 1, calls)
}

func TestSequence_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, tried, err := Sequence(ctx, "test", []int{1},
		func(_ context.Context, _ int, _ int) (int, Decision, error) {
			t.Fatal("attempt should not run")
			return 0, Stop, nil
		})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, tried)
}

func TestSequence_NoCandidates(t *testing.T) {
	_, tried, err := Sequence(context.Background(), "test", nil,
		func(_ context.Context, _ int, _ string) (string, Decision, error) {
			return "", Stop, nil
		})

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 0, tried)
}
