package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStats(t *testing.T) {
	img := FromPixels([]uint8{0, 10, 20, 30, 40, 255}, 3, 2)
	st := CalculateStats(img)

	assert.Equal(t, uint8(0), st.Min)
	assert.Equal(t, uint8(255), st.Max)
	assert.InDelta(t, 59.1667, st.Mean, 1e-3)
	assert.Equal(t, 6, st.Count)
	assert.Equal(t, "min=0 max=255 avg=59.17", st.String())
}

func TestCalculateStatsEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, CalculateStats(FromPixels(nil, 0, 0)))
}

func TestIsBinary(t *testing.T) {
	assert.True(t, IsBinary(FromPixels([]uint8{0, 255, 255, 0}, 2, 2)))
	assert.False(t, IsBinary(FromPixels([]uint8{0, 254, 255, 0}, 2, 2)))
}

func TestCompare(t *testing.T) {
	a := FromPixels([]uint8{1, 2, 3, 4}, 2, 2)
	b := FromPixels([]uint8{1, 9, 3, 8}, 2, 2)

	diff, err := Compare(a, b, 0)
	require.NoError(t, err)
	assert.Equal(t, []Mismatch{{X: 1, Y: 0, Want: 2, Got: 9}, {X: 1, Y: 1, Want: 4, Got: 8}}, diff)

	diff, err = Compare(a, b, 1)
	require.NoError(t, err)
	assert.Len(t, diff, 1)

	_, err = Compare(a, FromPixels(nil, 1, 0), 0)
	assert.Error(t, err)
}

func TestPSNR(t *testing.T) {
	a := FromPixels([]uint8{10, 20, 30, 40}, 2, 2)

	p, err := PSNR(a, a)
	require.NoError(t, err)
	assert.True(t, math.IsInf(p, 1))

	b := FromPixels([]uint8{11, 21, 31, 41}, 2, 2)
	p, err = PSNR(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 48.13, p, 0.01)

	_, err = PSNR(a, FromPixels([]uint8{1, 2}, 2, 1))
	assert.Error(t, err)
}
