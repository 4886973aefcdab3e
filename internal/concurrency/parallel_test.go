package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessParallel(t *testing.T) {
	ctx := context.Background()
	letter := func(_ context.Context, _ int, item int) (string, error) {
		return string(rune('a' + item - 1)), nil
	}

	results, errs := ProcessParallel(ctx, []int{}, DefaultOptions(), letter)
	assert.Empty(t, results)
	assert.Nil(t, errs)

	input := []int{1, 2, 3, 4, 5}
	for _, opts := range []ParallelOptions{DefaultOptions(), {MaxWorkers: 2}, {MaxWorkers: -1}} {
		results, errs = ProcessParallel(ctx, input, opts, letter)
		assert.Empty(t, errs)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, results)
	}

	results, errs = ProcessParallel(ctx, input, DefaultOptions(), func(_ context.Context, _ int, item int) (string, error) {
		if item%2 == 0 {
			return "", errors.New("even number")
		}
		return "ok", nil
	})
	assert.Len(t, errs, 2)
	assert.Equal(t, []string{"ok", "", "ok", "", "ok"}, results)
}

func TestProcessParallelOrder(t *testing.T) {
	input := []int{5, 3, 1, 4, 2}

	results, errs := ProcessParallel(context.Background(), input, DefaultOptions(), func(_ context.Context, _ int, item int) (int, error) {
		time.Sleep(time.Duration(item) * 5 * time.Millisecond)
		return item * 10, nil
	})
	require.Empty(t, errs)
	assert.Equal(t, []int{50, 30, 10, 40, 20}, results)
}

func TestProcessParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results, errs := ProcessParallel(ctx, []int{1, 2, 3}, DefaultOptions(), func(_ context.Context, _ int, item int) (int, error) {
		calls.Add(1)
		return item, nil
	})
	assert.Zero(t, calls.Load())
	assert.Equal(t, []int{0, 0, 0}, results)
	require.Len(t, errs, 3)
	assert.ErrorIs(t, errs[0], context.Canceled)
}
