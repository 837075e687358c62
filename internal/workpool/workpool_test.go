package workpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVisitsEveryIndex(t *testing.T) {
	p := New(4)
	var seen [10]atomic.Bool
	err := p.Run(context.Background(), 10, func(i int) error {
		seen[i].Store(true)
		return nil
	})
	require.NoError(t, err)
	for i := range seen {
		assert.True(t, seen[i].Load(), "index %d not visited", i)
	}
}

func TestRunPropagatesError(t *testing.T) {
	p := New(2)
	sentinel := errors.New("boom")
	err := p.Run(context.Background(), 5, func(i int) error {
		if i == 3 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestRunZeroWorkersUsesGOMAXPROCS(t *testing.T) {
	p := New(0)
	assert.Greater(t, p.Workers(), 0)
}

func TestRunEmptyBatch(t *testing.T) {
	p := New(2)
	err := p.Run(context.Background(), 0, func(i int) error {
		t.Fatal("should not be called")
		return nil
	})
	assert.NoError(t, err)
}
