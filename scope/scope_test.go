package scope

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/orneryd/affinity/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsSingleton(t *testing.T) {
	a := Default()
	b := Default()
	assert.Same(t, a, b)
	assert.Equal(t, KindDefault, a.Kind())
}

func TestCPUCoresOneCollapsesToDefault(t *testing.T) {
	s, err := CPUCores(1)
	require.NoError(t, err)
	assert.Same(t, Default(), s)
}

func TestCPUCoresNegativeRejected(t *testing.T) {
	_, err := CPUCores(-1)
	assert.Error(t, err)
}

func TestCPUCoresRunVisitsAll(t *testing.T) {
	s, err := CPUCores(4)
	require.NoError(t, err)
	var count atomic.Int64
	err = s.Run(context.Background(), 100, func(i int) error {
		count.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 100, count.Load())
}

func TestGPUDeviceMissingWithoutCUDA(t *testing.T) {
	gpu.ClearSimulated()
	_, err := GPUDevice(0)
	assert.Error(t, err)
}
