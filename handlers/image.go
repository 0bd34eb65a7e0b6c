package handlers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/nfnt/resize"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"hansik/metrics"
	"hansik/models"
)

// Thumbnail heights accepted by /image/{id}.
const (
	DefaultThumbnailHeight = 500
	MaxThumbnailHeight     = 1200
)

// maxImageBytes bounds the upstream body read into memory.
const maxImageBytes = 20 << 20

// Thumbnail is an encoded, resized image.
type Thumbnail struct {
	ContentType string
	Data        []byte
}

// Thumbnailer fetches remote recipe images and serves resized copies from an
// in-memory cache.
type Thumbnailer struct {
	client  *http.Client
	cache   *cache.Cache
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// ThumbnailerOptions configures a Thumbnailer.
type ThumbnailerOptions struct {
	Client *http.Client
	// TTL is how long a thumbnail stays cached. CleanupInterval of 0
	// disables the background janitor.
	TTL             time.Duration
	CleanupInterval time.Duration
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
}

// NewThumbnailer returns a Thumbnailer.
func NewThumbnailer(opts ThumbnailerOptions) *Thumbnailer {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Thumbnailer{
		client:  opts.Client,
		cache:   cache.New(opts.TTL, opts.CleanupInterval),
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
}

// Thumbnail returns the image at url resized to height, preserving the
// aspect ratio. Images are never upscaled.
func (t *Thumbnailer) Thumbnail(ctx context.Context, url string, height int) (*Thumbnail, error) {
	key := fmt.Sprintf("%s@%d", url, height)
	if v, found := t.cache.Get(key); found {
		if thumb, ok := v.(*Thumbnail); ok {
			t.metrics.ObserveThumbnailCache(true)
			return thumb, nil
		}
	}
	t.metrics.ObserveThumbnailCache(false)

	// The fetch is shared by every caller waiting on key, so it must outlive
	// any single request. The client timeout still bounds it.
	ch := t.group.DoChan(key, func() (any, error) {
		thumb, err := t.fetch(context.WithoutCancel(ctx), url, height)
		if err != nil {
			return nil, err
		}
		t.cache.Set(key, thumb, cache.DefaultExpiration)
		return thumb, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Thumbnail), nil
	}
}

// Len returns the number of cached thumbnails.
func (t *Thumbnailer) Len() int {
	return t.cache.ItemCount()
}

func (t *Thumbnailer) fetch(ctx context.Context, url string, height int) (*Thumbnail, error) {
	begin := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.Errorf(models.EINVALID, "invalid image url")
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &upstreamError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &upstreamError{err: fmt.Errorf("upstream status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, &upstreamError{err: err}
	}

	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, &unsupportedError{format: resp.Header.Get("Content-Type")}
	}

	if img.Bounds().Dy() > height {
		// Width 0 keeps the aspect ratio.
		img = resize.Resize(0, uint(height), img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	thumb := &Thumbnail{}
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		thumb.ContentType = "image/jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	case "png":
		thumb.ContentType = "image/png"
		err = png.Encode(&buf, img)
	default:
		return nil, &unsupportedError{format: format}
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	thumb.Data = buf.Bytes()

	t.logger.DebugContext(ctx, "thumbnail generated",
		"url", url,
		"height", height,
		"format", format,
		"bytes", len(thumb.Data),
		"duration", time.Since(begin),
	)
	return thumb, nil
}

type upstreamError struct{ err error }

func (e *upstreamError) Error() string { return "fetch image: " + e.err.Error() }
func (e *upstreamError) Unwrap() error { return e.err }

type unsupportedError struct{ format string }

func (e *unsupportedError) Error() string { return "unsupported image format " + e.format }

// parseHeight reads the h query parameter.
func parseHeight(s string) (int, error) {
	if s == "" {
		return DefaultThumbnailHeight, nil
	}
	h, err := strconv.Atoi(s)
	if err != nil || h <= 0 {
		return 0, models.Errorf(models.EINVALID, "invalid height %q", s)
	}
	return min(h, MaxThumbnailHeight), nil
}

// FetchImageHandler serves the image of a recipe resized to the requested height.
func (h *Handler) FetchImageHandler(w http.ResponseWriter, r *http.Request) {
	height, err := parseHeight(r.URL.Query().Get("h"))
	if err != nil {
		http.Error(w, models.ErrorMessage(err), http.StatusBadRequest)
		return
	}

	recipe, err := h.recipes.FindRecipeByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, models.ErrorMessage(err), ErrorStatusCode(models.ErrorCode(err)))
		return
	}
	if recipe.Image == "" {
		http.Error(w, "Recipe has no image", http.StatusNotFound)
		return
	}

	if h.thumbnails == nil {
		http.Redirect(w, r, recipe.Image, http.StatusFound)
		return
	}

	thumb, err := h.thumbnails.Thumbnail(r.Context(), recipe.Image, height)
	if err != nil {
		status := http.StatusInternalServerError
		switch err.(type) {
		case *upstreamError:
			status = http.StatusBadGateway
		case *unsupportedError:
			status = http.StatusUnsupportedMediaType
		}
		h.logger.WarnContext(r.Context(), "thumbnail failed",
			"request_id", RequestID(r.Context()),
			"recipe", recipe.ID,
			"err", err,
		)
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", thumb.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(thumb.Data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(thumb.Data)
}
