package imaging

import (
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSketchFile saves img as a PNG in a temp dir and returns its path.
func writeSketchFile(t *testing.T, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, EncodePNG(f, img))
	return path
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writeSketchFile(t, "image_re.png", newInkImage(120, 80, image.Rect(10, 10, 40, 30)))

	img1, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, img1.Bounds().Dx())
	assert.Equal(t, 80, img1.Bounds().Dy())
	assert.True(t, sameRGB(img1.At(20, 20), black), "ink lost in round trip: got %v", img1.At(20, 20))
	assert.True(t, sameRGB(img1.At(100, 70), white), "background lost in round trip: got %v", img1.At(100, 70))

	img2, err := cache.Load(path)
	require.NoError(t, err)
	assert.True(t, img1 == img2, "second Load did not return cached image")
	assert.Equal(t, 1, cache.Len())
}

func TestImageCache_Load_Errors(t *testing.T) {
	cache := NewImageCache()

	_, err := cache.Load("/nonexistent/path/to/image.png")
	assert.Error(t, err, "Load should fail for non-existent file")

	bad := filepath.Join(t.TempDir(), "not-a-sketch.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = cache.Load(bad)
	assert.Error(t, err, "Load should fail for invalid image data")

	assert.Zero(t, cache.Len(), "failed loads should not be cached")
}

func TestImageCache_EvictAndClear(t *testing.T) {
	cache := NewImageCache()
	a := writeSketchFile(t, "a.png", newSolidImage(10, 10, white))
	b := writeSketchFile(t, "b.png", newSolidImage(10, 10, black))

	for _, p := range []string{a, b} {
		_, err := cache.Load(p)
		require.NoError(t, err, "Load(%s)", p)
	}

	cache.Evict(a)
	cache.Evict("/not/cached")
	assert.Equal(t, 1, cache.Len(), "after Evict")

	cache.Clear()
	assert.Zero(t, cache.Len(), "after Clear")
}

func TestImageCache_EvictRereadsFile(t *testing.T) {
	cache := NewImageCache()
	path := writeSketchFile(t, "image.png", newSolidImage(10, 10, white))

	_, err := cache.Load(path)
	require.NoError(t, err)

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, EncodePNG(f, newSolidImage(20, 20, black)))
	f.Close()

	cache.Evict(path)
	img, err := cache.Load(path)
	require.NoError(t, err, "Load after Evict")
	assert.Equal(t, 20, img.Bounds().Dx(), "expected re-read image")
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := writeSketchFile(t, "image.png", newSolidImage(50, 50, white))

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err, "concurrent Load")
	}
}
