package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/postfx"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags([]string{"-in", "a.png"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "a.png", cfg.in)
	assert.Equal(t, "out.png", cfg.out)
	assert.Equal(t, []string{"tonemap"}, cfg.stages)
	assert.Equal(t, postfx.SRGBTransfer(), cfg.transfer)
	assert.Equal(t, postfx.GammaPiecewise, cfg.gamma.Mode)
	assert.Equal(t, postfx.UnpremultiplyMultiply, cfg.unpremultiply)
	assert.True(t, cfg.useGPU)
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-in", "a.png",
		"-stages", "tonemap, blit ,gamma",
		"-gamma-mode", "powerlaw",
		"-gamma-exp", "0.5",
		"-divide",
		"-gpu=false",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, []string{"tonemap", "blit", "gamma"}, cfg.stages)
	assert.Equal(t, postfx.GammaPowerLaw, cfg.gamma.Mode)
	assert.InDelta(t, 0.5, cfg.gamma.Gamma, 1e-6)
	assert.Equal(t, postfx.UnpremultiplyDivide, cfg.unpremultiply)
	assert.False(t, cfg.useGPU)
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing input", nil},
		{"bad gamma mode", []string{"-in", "a.png", "-gamma-mode", "cubic"}},
		{"extra argument", []string{"-in", "a.png", "b.png"}},
		{"unknown flag", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args, io.Discard)
			require.Error(t, err)
		})
	}
}

func TestBuildPipeline(t *testing.T) {
	cfg, err := parseFlags([]string{"-in", "a.png", "-stages", "tonemap,blit,background", "-width", "8"}, io.Discard)
	require.NoError(t, err)

	p, err := buildPipeline(cfg, postfx.NewPixmap(4, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"tonemap", "blit", "premultiply", "background", "unpremultiply"}, p.Stages())
}

func TestBuildPipelineTracksAlpha(t *testing.T) {
	tests := []struct {
		stages string
		want   []string
	}{
		{"gamma", []string{"unpremultiply", "gamma"}},
		{"tonemap,gamma", []string{"tonemap", "gamma"}},
		{"gamma,tonemap", []string{"unpremultiply", "gamma", "premultiply", "tonemap"}},
		{"blit", []string{"blit"}},
		{"background,blit", []string{"background", "blit"}},
	}
	for _, tt := range tests {
		t.Run(tt.stages, func(t *testing.T) {
			cfg, err := parseFlags([]string{"-in", "a.png", "-stages", tt.stages}, io.Discard)
			require.NoError(t, err)
			p, err := buildPipeline(cfg, postfx.NewPixmap(2, 2))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Stages())
		})
	}
}

func TestBuildPipelineUnknownStage(t *testing.T) {
	cfg, err := parseFlags([]string{"-in", "a.png", "-stages", "tonemap,bloom"}, io.Discard)
	require.NoError(t, err)

	_, err = buildPipeline(cfg, postfx.NewPixmap(1, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bloom"`)
	assert.Contains(t, err.Error(), strings.Join(stageNames(), ", "))
}

func TestStageNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"background", "blit", "gamma", "tonemap"}, stageNames())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false, false).Warn("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "non-terminal output should be JSON: %q", buf.String())

	buf.Reset()
	newLogger(&buf, true, false).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, true, true).Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func readTestPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeTestPNG(t, in, 5, 4)

	cfg, err := parseFlags([]string{
		"-in", in, "-out", out,
		"-stages", "blit,tonemap",
		"-width", "10", "-height", "8",
		"-filter", "nearest",
		"-gpu=false",
	}, io.Discard)
	require.NoError(t, err)

	var summary bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, run(t.Context(), cfg, logger, &summary))

	img := readTestPNG(t, out)
	assert.Equal(t, image.Rect(0, 0, 10, 8), img.Bounds())
	assert.Contains(t, summary.String(), "80 pixels (10x8)")
}

func TestRunBlitOnlyRoundTrips(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeTestPNG(t, in, 3, 3)

	cfg, err := parseFlags([]string{"-in", in, "-out", out, "-stages", "blit", "-filter", "nearest", "-gpu=false"}, io.Discard)
	require.NoError(t, err)
	require.NoError(t, run(t.Context(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), io.Discard))

	want := readTestPNG(t, in)
	got := readTestPNG(t, out)
	for y := range 3 {
		for x := range 3 {
			assert.Equal(t, color.NRGBAModel.Convert(want.At(x, y)), color.NRGBAModel.Convert(got.At(x, y)), "pixel (%d,%d)", x, y)
		}
	}
}

func TestRunCatmullRom(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeTestPNG(t, in, 4, 4)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg, err := parseFlags([]string{"-in", in, "-out", filepath.Join(dir, "a.png"), "-stages", "blit", "-filter", "catmullrom", "-width", "9"}, io.Discard)
	require.NoError(t, err)
	require.NoError(t, run(t.Context(), cfg, logger, io.Discard))
	assert.Equal(t, image.Rect(0, 0, 9, 4), readTestPNG(t, filepath.Join(dir, "a.png")).Bounds())

	cfg.stages = []string{"tonemap", "blit"}
	require.Error(t, run(t.Context(), cfg, logger, io.Discard))
}

func TestRunMissingInput(t *testing.T) {
	cfg, err := parseFlags([]string{"-in", filepath.Join(t.TempDir(), "missing.png")}, io.Discard)
	require.NoError(t, err)
	require.Error(t, run(t.Context(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), io.Discard))
}

func TestDumpShaders(t *testing.T) {
	dir := t.TempDir()
	err := dumpShaders(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil && (strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported")) {
		t.Skipf("shader compiler limitation: %v", err)
	}
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, ".spv", filepath.Ext(e.Name()))
	}
}

func TestRunGammaKeepsTranslucentColor(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	img.SetNRGBA(1, 0, color.NRGBA{R: 188, G: 0, B: 255, A: 64})
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	cfg, err := parseFlags([]string{"-in", in, "-out", out, "-stages", "gamma", "-gpu=false"}, io.Discard)
	require.NoError(t, err)
	require.NoError(t, run(t.Context(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), io.Discard))

	got := readTestPNG(t, out)
	// Piecewise gamma of a decoded sRGB value reproduces the input code.
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 128}, color.NRGBAModel.Convert(got.At(0, 0)))
	assert.Equal(t, color.NRGBA{R: 188, G: 0, B: 255, A: 64}, color.NRGBAModel.Convert(got.At(1, 0)))
}
