package filters

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelstream/internal/stream"
	"pixelstream/internal/window"
)

func uniform(v stream.Sample) window.Grid {
	var w window.Grid
	for i := range w {
		for j := range w[i] {
			w[i][j] = v
		}
	}
	return w
}

func TestKernelSums(t *testing.T) {
	assert.Equal(t, 0, SobelX.Sum())
	assert.Equal(t, 0, SobelY.Sum())
	assert.Equal(t, 1<<gaussianShift, GaussianKernel.Sum())
	assert.Equal(t, 1, SharpenKernel.Sum())
}

func TestSobel(t *testing.T) {
	tests := []struct {
		name string
		w    window.Grid
		want stream.Sample
	}{
		{"flat", uniform(90), 0},
		{"vertical edge", window.Grid{{0, 0, 10}, {0, 0, 10}, {0, 0, 10}}, 40},
		{"horizontal edge", window.Grid{{0, 0, 0}, {0, 0, 0}, {10, 10, 10}}, 40},
		{"diagonal", window.Grid{{0, 0, 0}, {0, 0, 0}, {0, 0, 10}}, 20},
		{"saturates", window.Grid{{0, 0, 255}, {0, 0, 255}, {0, 0, 255}}, 255},
		{"negative gradient", window.Grid{{10, 0, 0}, {10, 0, 0}, {10, 0, 0}}, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sobel(tt.w))
		})
	}
}

func TestGaussian(t *testing.T) {
	assert.Equal(t, stream.Sample(77), Gaussian(uniform(77)))
	assert.Equal(t, stream.Sample(255), Gaussian(uniform(255)))

	// centre only: 4*100/16 = 25
	assert.Equal(t, stream.Sample(25), Gaussian(window.Grid{{0, 0, 0}, {0, 100, 0}, {0, 0, 0}}))
	// floor, not round: 4*3/16 = 0.75
	assert.Equal(t, stream.Sample(0), Gaussian(window.Grid{{0, 0, 0}, {0, 3, 0}, {0, 0, 0}}))
}

func TestGaussianNeverNeedsClamp(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 20000; n++ {
		var w window.Grid
		for i := range w {
			for j := range w[i] {
				w[i][j] = stream.Sample(rng.Intn(256))
			}
		}
		raw := Convolve(w, GaussianKernel) >> gaussianShift
		require.GreaterOrEqual(t, raw, 0)
		require.LessOrEqual(t, raw, 255)
		require.Equal(t, stream.Sample(raw), Gaussian(w))
	}
}

func TestSharpen(t *testing.T) {
	assert.Equal(t, stream.Sample(50), Sharpen(uniform(50)))
	assert.Equal(t, stream.Sample(255), Sharpen(window.Grid{{0, 0, 0}, {0, 100, 0}, {0, 0, 0}}))
	assert.Equal(t, stream.Sample(0), Sharpen(window.Grid{{0, 200, 0}, {200, 10, 200}, {0, 200, 0}}))
	// 5*60 - (50+40+30+20) = 160
	assert.Equal(t, stream.Sample(160), Sharpen(window.Grid{{9, 50, 9}, {40, 60, 30}, {9, 20, 9}}))
}

func TestThresholdStrict(t *testing.T) {
	assert.Equal(t, stream.Sample(0), Threshold(100, 100))
	assert.Equal(t, stream.Sample(255), Threshold(101, 100))
	assert.Equal(t, stream.Sample(0), Threshold(0, 0))
	assert.Equal(t, stream.Sample(255), Threshold(1, 0))
	assert.Equal(t, stream.Sample(0), Threshold(255, 255))
}

func TestNegativeInvolution(t *testing.T) {
	for v := 0; v < 256; v++ {
		s := stream.Sample(v)
		assert.Equal(t, stream.Sample(255-v), Negative(s))
		assert.Equal(t, s, Negative(Negative(s)))
	}
}

func TestDispatchBorderPolicy(t *testing.T) {
	w := window.Grid{{0, 0, 10}, {0, 0, 10}, {0, 0, 10}}
	const current = 10

	tests := []struct {
		mode  FilterMode
		valid stream.Sample
		edge  stream.Sample
	}{
		{ModeBypass, current, current},
		{ModeGrayscale, current, current},
		{ModeSobel, 40, 0},
		{ModeThreshold, 0, 0},
		{ModeGaussian, Gaussian(w), current},
		{ModeNegative, 245, 245},
		{ModeSharpen, Sharpen(w), current},
		{FilterMode(7), current, current},
		{FilterMode(200), current, current},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.valid, Dispatch(tt.mode, 128, current, w, true))
			assert.Equal(t, tt.edge, Dispatch(tt.mode, 128, current, w, false))
		})
	}
}

func TestParseFilterMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FilterMode
		wantErr bool
	}{
		{"sobel", ModeSobel, false},
		{" Sharpen ", ModeSharpen, false},
		{"4", ModeGaussian, false},
		{"7", FilterMode(7), false},
		{"median", 0, true},
		{"300", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFilterMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestModes(t *testing.T) {
	modes := Modes()
	require.Len(t, modes, 7)
	for i, m := range modes {
		assert.Equal(t, FilterMode(i), m)
		assert.True(t, m.Valid())
		roundTrip, err := ParseFilterMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, roundTrip)
	}
	assert.False(t, FilterMode(7).Valid())
	assert.Equal(t, "mode(7)", FilterMode(7).String())
	assert.True(t, ModeSobel.IsStencil())
	assert.False(t, ModeThreshold.IsStencil())
}
