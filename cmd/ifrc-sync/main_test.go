package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeApp struct {
	err        error
	usageError bool
}

func (f fakeApp) Run(context.Context) error { return f.err }
func (f fakeApp) UsageError() bool          { return f.usageError }

func TestRun(t *testing.T) {
	testCases := []struct {
		name string
		app  fakeApp
		want int
	}{
		{name: "success", app: fakeApp{}, want: 0},
		{name: "runtime error", app: fakeApp{err: errors.New("boom")}, want: 1},
		{name: "usage error", app: fakeApp{err: errors.New("bad flag"), usageError: true}, want: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, run(context.Background(), tc.app))
		})
	}
}
