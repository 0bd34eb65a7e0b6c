package handlers_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansik/handlers"
	"hansik/logging"
	"hansik/metrics"
	"hansik/mock"
	"hansik/models"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// upstream serves a 100x40 PNG under /pic.png and counts requests.
func upstream(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	data := testPNG(t, 100, 40)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/pic.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(data)
		case "/text":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("not an image"))
		default:
			http.Error(w, "broken", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func recipesWithImages(base string) *mock.RecipeService {
	recipes := map[string]*models.Recipe{
		"pic":      {ID: "pic", Image: base + "/pic.png"},
		"text":     {ID: "text", Image: base + "/text"},
		"broken":   {ID: "broken", Image: base + "/broken"},
		"no-image": {ID: "no-image"},
	}
	return &mock.RecipeService{
		FindRecipeByIDFn: func(ctx context.Context, id string) (*models.Recipe, error) {
			if r, ok := recipes[id]; ok {
				return r, nil
			}
			return nil, models.Errorf(models.ENOTFOUND, "Recipe not found.")
		},
	}
}

func TestFetchImageHandler(t *testing.T) {
	t.Parallel()

	srv, hits := upstream(t)
	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	require.NoError(t, err)

	thumbs := handlers.NewThumbnailer(handlers.ThumbnailerOptions{
		Client:  srv.Client(),
		TTL:     time.Minute,
		Metrics: m,
		Logger:  logging.Discard(),
	})
	h := newHandler(t, handlers.Options{Recipes: recipesWithImages(srv.URL), Thumbnails: thumbs, Metrics: m})

	t.Run("resizes keeping the aspect ratio", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/image/pic?h=20", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec.Header().Get("Cache-Control"))

		img, format, err := image.Decode(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 20, img.Bounds().Dy())
		assert.Equal(t, 50, img.Bounds().Dx())
	})

	t.Run("serves repeated requests from cache", func(t *testing.T) {
		before := hits.Load()
		rec := do(h, http.MethodGet, "/image/pic?h=20", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, before, hits.Load())
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ThumbnailCache.WithLabelValues("hit")))
	})

	t.Run("never upscales", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/image/pic?h=5000", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		img, _, err := image.Decode(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, 40, img.Bounds().Dy())
	})

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{name: "invalid height", target: "/image/pic?h=abc", wantStatus: http.StatusBadRequest},
		{name: "negative height", target: "/image/pic?h=-5", wantStatus: http.StatusBadRequest},
		{name: "unknown recipe", target: "/image/pizza", wantStatus: http.StatusNotFound},
		{name: "recipe without image", target: "/image/no-image", wantStatus: http.StatusNotFound},
		{name: "unsupported format", target: "/image/text", wantStatus: http.StatusUnsupportedMediaType},
		{name: "upstream failure", target: "/image/broken", wantStatus: http.StatusBadGateway},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(h, http.MethodGet, tc.target, nil)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestFetchImageHandler_WithoutThumbnailer(t *testing.T) {
	t.Parallel()

	h := newHandler(t, handlers.Options{Recipes: recipesWithImages("https://images.example")})

	rec := do(h, http.MethodGet, "/image/pic", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://images.example/pic.png", rec.Header().Get("Location"))
}

func TestThumbnailer_DefaultHeight(t *testing.T) {
	t.Parallel()

	data := testPNG(t, 60, 1000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	thumbs := handlers.NewThumbnailer(handlers.ThumbnailerOptions{Client: srv.Client(), Logger: logging.Discard()})
	thumb, err := thumbs.Thumbnail(context.Background(), srv.URL, handlers.DefaultThumbnailHeight)
	require.NoError(t, err)
	assert.Equal(t, "image/png", thumb.ContentType)
	assert.Equal(t, 1, thumbs.Len())

	img, err := png.Decode(bytes.NewReader(thumb.Data))
	require.NoError(t, err)
	assert.Equal(t, handlers.DefaultThumbnailHeight, img.Bounds().Dy())
	assert.Equal(t, 30, img.Bounds().Dx())
}

func TestThumbnailer_CanceledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	data := testPNG(t, 40, 80)
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
		}
		<-release
		_, _ = w.Write(data)
	}))
	defer srv.Close()
	defer unblock()

	thumbs := handlers.NewThumbnailer(handlers.ThumbnailerOptions{Client: srv.Client(), Logger: logging.Discard()})

	type result struct {
		thumb *handlers.Thumbnail
		err   error
	}
	call := func(ctx context.Context) <-chan result {
		ch := make(chan result, 1)
		go func() {
			thumb, err := thumbs.Thumbnail(ctx, srv.URL, 20)
			ch <- result{thumb, err}
		}()
		return ch
	}
	wait := func(ch <-chan result) result {
		t.Helper()
		select {
		case res := <-ch:
			return res
		case <-time.After(5 * time.Second):
			t.Fatal("thumbnail call did not return")
			return result{}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	first := call(ctx)
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("upstream was never called")
	}
	second := call(context.Background())
	time.Sleep(50 * time.Millisecond)

	cancel()
	res := wait(first)
	require.ErrorIs(t, res.err, context.Canceled)

	unblock()
	res = wait(second)
	require.NoError(t, res.err)
	img, err := png.Decode(bytes.NewReader(res.thumb.Data))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dy())

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1, thumbs.Len())
}
