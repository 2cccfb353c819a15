package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelstream/internal/pipeline"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestModesCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"modes"})
	require.NoError(t, cmd.Execute())

	for _, name := range []string{"bypass", "grayscale", "sobel", "threshold", "gaussian", "negative", "sharpen"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestPatternAndFilter(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.pgm")
	out := filepath.Join(dir, "negative.png")

	_, err := execute(t, "pattern", "--out", in, "--width", "32", "--height", "24")
	require.NoError(t, err)

	stdout, err := execute(t, "filter", "--in", in, "--out", out, "--mode", "negative")
	require.NoError(t, err)
	assert.Contains(t, stdout, "filter=negative")

	loader := pipeline.NewLoader(nil)
	src, err := loader.LoadFromPath(in)
	require.NoError(t, err)
	dst, err := loader.LoadFromPath(out)
	require.NoError(t, err)
	for i, v := range src.Image.Pix {
		require.Equal(t, 255-v, dst.Image.Pix[i])
	}
}

func TestFilterThroughController(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.pgm")
	out := filepath.Join(dir, "bw.pgm")

	_, err := execute(t, "pattern", "--out", in)
	require.NoError(t, err)
	_, err = execute(t, "filter", "-i", in, "-o", out, "-m", "3", "-t", "100", "--controller", "--raw-pgm")
	require.NoError(t, err)

	data, err := pipeline.NewLoader(nil).LoadFromPath(out)
	require.NoError(t, err)
	assert.True(t, pipeline.IsBinary(data.Image))
}

func TestFilterUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.pgm")
	out := filepath.Join(dir, "out.pgm")
	cfgPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("filter: sobel\nwidth: 10\n"), 0o644))

	_, err := execute(t, "pattern", "--out", in, "--width", "16", "--height", "16")
	require.NoError(t, err)

	_, err = execute(t, "--config", cfgPath, "filter", "--in", in, "--out", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pins 10x16")
}

func TestFilterRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "filter", "--in", "a.pgm", "--out", "b.pgm", "--mode", "emboss")
	assert.Error(t, err)

	_, err = execute(t, "filter", "--in", "a.pgm", "--out", "b.pgm", "--threshold", "256")
	assert.Error(t, err)

	_, err = execute(t, "filter", "--out", "b.pgm")
	assert.Error(t, err)
}

func TestTestbenchCommand(t *testing.T) {
	dir := t.TempDir()
	stdout, err := execute(t, "testbench", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ALL TESTS PASSED")
	assert.Contains(t, stdout, "Image size: 64 x 64")

	for _, name := range []string{"input.pgm", "output_bypass.pgm", "output_sobel.pgm", "output_sharpen.pgm"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestFilterChain(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.pgm")
	out := filepath.Join(dir, "same.pgm")

	_, err := execute(t, "pattern", "--out", in)
	require.NoError(t, err)

	stdout, err := execute(t, "filter", "--in", in, "--out", out, "--mode", "negative,negative")
	require.NoError(t, err)
	assert.Contains(t, stdout, "negative -> negative")

	loader := pipeline.NewLoader(nil)
	src, err := loader.LoadFromPath(in)
	require.NoError(t, err)
	dst, err := loader.LoadFromPath(out)
	require.NoError(t, err)
	assert.Equal(t, src.Image.Pix, dst.Image.Pix)
}

func TestSizeFlagsRejectEmptyImages(t *testing.T) {
	dir := t.TempDir()
	tests := [][]string{
		{"pattern", "--out", filepath.Join(dir, "p.pgm"), "--width", "0"},
		{"pattern", "--out", filepath.Join(dir, "p.pgm"), "--height", "-3"},
		{"testbench", "--width", "0"},
		{"testbench", "--height", "-1"},
	}
	for _, args := range tests {
		_, err := execute(t, args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "at least 1")
	}

	_, err := os.Stat(filepath.Join(dir, "p.pgm"))
	assert.True(t, os.IsNotExist(err))
}
