package shell

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/sketch-classifier/internal/canvas"
	"github.com/ironsheep/sketch-classifier/internal/classify"
	"github.com/ironsheep/sketch-classifier/internal/imaging"
	"github.com/ironsheep/sketch-classifier/internal/session"
	"github.com/ironsheep/sketch-classifier/internal/stroke"
)

func newTestCtxt(t *testing.T) *ShellCtxt {
	t.Helper()

	catalog := classify.Catalog{
		classify.Basic:    {Mode: classify.Basic, Path: "basic", Resolution: 8, Labels: classify.LabelSet{"square", "circle"}},
		classify.Advanced: {Mode: classify.Advanced, Path: "advanced", Resolution: 8, Labels: classify.LabelSet{"star"}},
	}
	loader := classify.StaticLoader{
		"basic": classify.ClassifierFunc(func(context.Context, imaging.Tensor) ([]float64, error) {
			return []float64{0.25, 0.75}, nil
		}),
		"advanced": classify.ClassifierFunc(func(context.Context, imaging.Tensor) ([]float64, error) {
			return []float64{1}, nil
		}),
	}

	sess := session.New(session.DefaultOptions(), canvas.DefaultOptions(), classify.NewManager(loader, catalog))
	t.Cleanup(func() { _ = sess.Close() })

	select {
	case err := <-sess.ChangeModel(context.Background(), classify.Basic):
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out loading model")
	}

	return &ShellCtxt{Session: sess, Cache: imaging.NewImageCache()}
}

func TestParsePoints(t *testing.T) {
	points, err := parsePoints([]string{"10", "20", "-3", "400"})
	require.NoError(t, err)
	assert.Equal(t, []image.Point{{10, 20}, {-3, 400}}, points)

	for _, args := range [][]string{nil, {"1"}, {"1", "2", "3"}, {"a", "2"}, {"1", "2.5"}} {
		_, err := parsePoints(args)
		assert.Error(t, err, "args %v", args)
	}
}

func TestApplySetting(t *testing.T) {
	base := session.DefaultOptions()

	opts, err := applySetting(base, "stroke", "30")
	require.NoError(t, err)
	assert.Equal(t, 30.0, opts.StrokeLength)
	assert.Equal(t, base.RescalerOn, opts.RescalerOn)

	opts, err = applySetting(base, "rescaler", "off")
	require.NoError(t, err)
	assert.False(t, opts.RescalerOn)

	opts, err = applySetting(base, "smoothing", "ON")
	require.NoError(t, err)
	assert.True(t, opts.SmoothingOn)

	opts, err = applySetting(base, "smoothing", "true")
	require.NoError(t, err)
	assert.True(t, opts.SmoothingOn)

	tests := []struct{ name, value string }{
		{"stroke", "0"},
		{"stroke", "-5"},
		{"stroke", "long"},
		{"rescaler", "maybe"},
		{"colour", "red"},
	}
	for _, tt := range tests {
		got, err := applySetting(base, tt.name, tt.value)
		assert.Error(t, err, "%s %s", tt.name, tt.value)
		assert.Equal(t, base, got)
	}
}

func TestCommands_Names(t *testing.T) {
	ctx := newTestCtxt(t)

	var names []string
	for _, cmd := range commands(ctx) {
		assert.NotEmpty(t, cmd.Help, cmd.Name)
		assert.NotNil(t, cmd.Func, cmd.Name)
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t,
		[]string{"down", "move", "up", "leave", "clear", "eval", "classify", "mode", "set", "status", "export"},
		names)
}

func TestStatus(t *testing.T) {
	ctx := newTestCtxt(t)
	assert.Equal(t, "[basic idle]>", ctx.prompt())

	st := status(ctx)
	assert.Equal(t, "idle", st.State)
	assert.Equal(t, "basic", st.Mode)
	assert.Equal(t, "ready", st.ModelState)
	assert.Equal(t, "empty", describeBox(st.RawBox))

	ctx.Session.PointerDown(image.Pt(10, 10))
	ctx.Session.PointerMove(image.Pt(30, 20))
	assert.Equal(t, "[basic drawing]>", ctx.prompt())
	ctx.Session.PointerUp()

	st = status(ctx)
	assert.Equal(t, "idle_with_ink", st.State)
	assert.Equal(t, stroke.BoundingBox{MinX: 30, MinY: 20, MaxX: 30, MaxY: 20}, st.RawBox)
	assert.NotEqual(t, "empty", describeBox(st.RawBox))
}

func TestWriteExport(t *testing.T) {
	ctx := newTestCtxt(t)
	ctx.Session.PointerDown(image.Pt(100, 100))
	ctx.Session.PointerMove(image.Pt(100, 100))
	ctx.Session.PointerMove(image.Pt(200, 150))
	ctx.Session.PointerUp()

	res, err := ctx.Session.Export(0)
	require.NoError(t, err)
	assert.Equal(t, "image_re.png", res.Filename)

	path := filepath.Join(t.TempDir(), res.Filename)
	require.NoError(t, writeExport(path, res))

	img, err := ctx.Cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, res.Width, img.Bounds().Dx())
	assert.Equal(t, res.Height, img.Bounds().Dy())

	ev, err := ctx.Session.ClassifyImage(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "circle", ev.Result.Label)
	assert.Equal(t, 75, ev.Result.ConfidencePercent)
}

func TestWriteExport_BadPath(t *testing.T) {
	ctx := newTestCtxt(t)
	res, err := ctx.Session.Export(0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "missing", "out.png")
	assert.Error(t, writeExport(path, res))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
