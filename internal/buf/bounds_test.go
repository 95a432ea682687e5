package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddOverflowSafe(t *testing.T) {
	v, ok := AddOverflowSafe(1, 2)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = AddOverflowSafe(math.MaxInt, 1)
	assert.False(t, ok)

	_, ok = AddOverflowSafe(math.MinInt, -1)
	assert.False(t, ok)

	v, ok = AddOverflowSafe(math.MaxInt-1, 1)
	assert.True(t, ok)
	assert.Equal(t, math.MaxInt, v)
}

func TestMulOverflowSafe(t *testing.T) {
	v, ok := MulOverflowSafe(3, 4)
	assert.True(t, ok)
	assert.Equal(t, 12, v)

	v, ok = MulOverflowSafe(0, math.MaxInt)
	assert.True(t, ok)
	assert.Equal(t, 0, v)

	_, ok = MulOverflowSafe(math.MaxInt, 2)
	assert.False(t, ok)

	_, ok = MulOverflowSafe(math.MaxInt/2+1, 2)
	assert.False(t, ok)
}

func TestSlice(t *testing.T) {
	b := []byte{1, 2, 3, 4}

	s, ok := Slice(b, 1, 2)
	assert.True(t, ok)
	assert.Equal(t, []byte{2, 3}, s)

	_, ok = Slice(b, 3, 2)
	assert.False(t, ok)

	_, ok = Slice(b, -1, 1)
	assert.False(t, ok)

	_, ok = Slice(b, 1, -1)
	assert.False(t, ok)

	s, ok = Slice(b, 4, 0)
	assert.True(t, ok)
	assert.Empty(t, s)
}

func TestHas(t *testing.T) {
	b := make([]byte, 16)
	assert.True(t, Has(b, 0, 16))
	assert.True(t, Has(b, 8, 8))
	assert.False(t, Has(b, 8, 9))
	assert.False(t, Has(b, -1, 4))
}
