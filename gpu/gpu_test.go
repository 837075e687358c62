package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingDevice(t *testing.T) {
	ClearSimulated()
	assert.False(t, Available())
	_, err := Open(0)
	assert.Error(t, err)
}

func TestOpenSimulatedDevice(t *testing.T) {
	ClearSimulated()
	t.Cleanup(ClearSimulated)
	RegisterSimulated(0, "sim-gpu-0", 9, 0)

	require.True(t, Available())
	require.Equal(t, 1, DeviceCount())

	dev, err := Open(0)
	require.NoError(t, err)
	assert.Equal(t, 90, dev.ComputeCapability())
	assert.False(t, dev.Released())
	dev.Release()
	assert.True(t, dev.Released())
}
