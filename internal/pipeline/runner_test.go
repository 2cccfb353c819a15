package pipeline

import (
	"context"
	"image"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelstream/internal/control"
	"pixelstream/internal/engine"
	"pixelstream/internal/processing/filters"
)

func randomGray(seed int64, w, h int) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func newEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	e, err := engine.New(opts...)
	require.NoError(t, err)
	return e
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func frameRunners(t *testing.T) map[string]FrameRunner {
	return map[string]FrameRunner{
		"engine":     EngineRunner{Engine: newEngine(t)},
		"controller": ControllerRunner{Controller: control.New(newEngine(t), nil)},
	}
}

func TestRunnerMatchesProcess(t *testing.T) {
	img := randomGray(3, 21, 11)

	for name, fr := range frameRunners(t) {
		for _, buffer := range []int{0, 64} {
			runner := NewRunner(fr, nil, buffer)
			for _, mode := range filters.Modes() {
				cfg := engine.Config{Filter: mode, Threshold: 90, Width: 21, Height: 11}
				want, err := newEngine(t).Process(context.Background(), cfg, Pixels(img))
				require.NoError(t, err)

				got, report, err := runner.Run(testCtx(t), mode, 90, img)
				require.NoError(t, err, "%s/%s", name, mode)
				assert.Equal(t, want, got.Pix, "%s/%s buffer=%d", name, mode, buffer)
				assert.Equal(t, cfg.Samples(), report.Samples)
				assert.NotEmpty(t, report.TraceID)
			}
		}
	}
}

func TestRunnerSubImage(t *testing.T) {
	full := randomGray(4, 12, 12)
	sub := full.SubImage(image.Rect(3, 2, 10, 9)).(*image.Gray)

	runner := NewRunner(EngineRunner{Engine: newEngine(t)}, nil, 0)
	got, _, err := runner.Run(testCtx(t), filters.ModeBypass, 0, sub)
	require.NoError(t, err)
	assert.Equal(t, Pixels(sub), got.Pix)
	assert.Equal(t, image.Rect(0, 0, 7, 7), got.Bounds())
}

func TestRunnerRejectsOversizedFrame(t *testing.T) {
	e := newEngine(t, engine.WithLimits(engine.Limits{MaxWidth: 8, MaxHeight: 8}))
	runner := NewRunner(EngineRunner{Engine: e}, nil, 0)

	_, _, err := runner.Run(testCtx(t), filters.ModeSobel, 0, randomGray(5, 16, 4))
	require.ErrorIs(t, err, engine.ErrInvalidConfig)
	assert.False(t, e.IsProcessing())
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, fr := range frameRunners(t) {
		runner := NewRunner(fr, nil, 0)
		_, _, err := runner.Run(ctx, filters.ModeGaussian, 0, randomGray(6, 32, 32))
		assert.ErrorIs(t, err, context.Canceled, name)
	}
}
