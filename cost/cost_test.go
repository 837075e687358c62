package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLinear(t *testing.T) {
	assert.True(t, GapCost{Open: 2, Extend: 2}.IsLinear())
	assert.False(t, GapCost{Open: 5, Extend: 1}.IsLinear())
}

func TestUniformMatrix(t *testing.T) {
	m := UniformMatrix(Uniform{Match: 0, Mismatch: 1})
	assert.EqualValues(t, 0, m['a']['a'])
	assert.EqualValues(t, 1, m['a']['b'])
}
