// Package handlers serves the recipe catalog over HTTP: HTML pages, a
// read-only JSON API, resized recipe images and operational endpoints.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"hansik/metrics"
	"hansik/models"
	"hansik/views"
)

// DefaultRecentCount is how many recipes the landing page lists.
const DefaultRecentCount = 6

// Options defines the dependencies of the HTTP handler.
type Options struct {
	Recipes models.RecipeService
	Logger  *slog.Logger

	// Metrics and Gatherer are optional; /metrics is only mounted with a Gatherer.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// Thumbnails is optional; without it /image/{id} redirects to the original image.
	Thumbnails *Thumbnailer

	RecentCount int
	CORSOrigins []string

	// Now is used for the footer year; defaults to time.Now.
	Now func() time.Time
}

// Handler routes every request of the service.
type Handler struct {
	recipes     models.RecipeService
	views       *views.Views
	logger      *slog.Logger
	metrics     *metrics.Metrics
	thumbnails  *Thumbnailer
	recentCount int
	now         func() time.Time

	router http.Handler
}

// NewHandler builds the router with all routes and middleware.
func NewHandler(opts Options) (*Handler, error) {
	if opts.Recipes == nil {
		return nil, errors.New("recipe service is required")
	}
	v, err := views.New()
	if err != nil {
		return nil, err
	}
	h := &Handler{
		recipes:     opts.Recipes,
		views:       v,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		thumbnails:  opts.Thumbnails,
		recentCount: opts.RecentCount,
		now:         opts.Now,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.recentCount <= 0 {
		h.recentCount = DefaultRecentCount
	}
	if h.now == nil {
		h.now = time.Now
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := mux.NewRouter()
	r.StrictSlash(true)
	r.Use(routeLabel)

	// Pages
	r.HandleFunc("/", h.Index).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/recipes", h.Recipes).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/recipe/{id}", h.RecipeDetail).Methods(http.MethodGet, http.MethodHead)

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "HX-Request"},
	}).Handler)
	api.HandleFunc("/recipes", h.GetRecipes).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/recipes/{id}", h.GetRecipe).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/tags", h.GetTags).Methods(http.MethodGet, http.MethodOptions)
	api.NotFoundHandler = http.HandlerFunc(h.apiNotFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(h.apiMethodNotAllowed)

	// Images and assets
	r.HandleFunc("/image/{id}", h.FetchImageHandler).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	// Operations
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.methodNotAllowed)

	h.router = chain(r,
		requestID,
		h.observe,
		h.recoverPanics,
	)
	return h, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}
