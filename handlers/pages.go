package handlers

import (
	"context"
	"html/template"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"hansik/i18n"
	"hansik/models"
	"hansik/views"
)

// Index renders the landing page: the featured recipe and the latest ones.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	featured, err := h.recipes.FeaturedRecipe(r.Context())
	if err != nil && models.ErrorCode(err) != models.ENOTFOUND {
		h.pageError(w, r, err)
		return
	}

	recent, err := h.recipes.RecentRecipes(r.Context(), h.recentCount)
	if err != nil {
		h.pageError(w, r, err)
		return
	}

	h.render(w, r, h.views.Index(views.IndexData{
		Layout:   h.layout(w, r),
		Featured: featured,
		Recent:   recent,
	}))
}

// Recipes renders the listing page with the filter taken from the query string.
func (h *Handler) Recipes(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.pageError(w, r, err)
		return
	}

	recipes, err := h.recipes.FindRecipes(r.Context(), filter)
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	h.metrics.ObserveSearch(filter, len(recipes))

	tags, err := h.recipes.Tags(r.Context())
	if err != nil {
		h.pageError(w, r, err)
		return
	}

	h.render(w, r, h.views.Recipes(views.RecipesData{
		Layout:  h.layout(w, r),
		Filter:  filter,
		Tags:    tags,
		Recipes: recipes,
	}))
}

// RecipeDetail renders a single recipe or the recipe-not-found page.
func (h *Handler) RecipeDetail(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.recipes.FindRecipeByID(r.Context(), mux.Vars(r)["id"])
	if models.ErrorCode(err) == models.ENOTFOUND {
		h.render(w, r, h.views.NotFound(views.NotFoundData{Layout: h.layout(w, r), Recipe: true}))
		return
	} else if err != nil {
		h.pageError(w, r, err)
		return
	}

	h.render(w, r, h.views.Detail(views.DetailData{
		Layout:   h.layout(w, r),
		Recipe:   recipe,
		ShareURL: absoluteURL(r, views.RecipeURL(recipe.ID)),
	}))
}

// layout resolves the language of the request and fills the shared chrome.
func (h *Handler) layout(w http.ResponseWriter, r *http.Request) views.Layout {
	loc := i18n.FromRequest(w, r)
	return views.Layout{
		L:         loc,
		Path:      r.URL.Path,
		Year:      h.now().Year(),
		Languages: views.LanguageOptions(loc, r.URL),
	}
}

// render writes the full document, or only the page content for HTMX
// requests. Fragments carry a <title> so htmx updates the document title.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page views.Page) {
	w.Header().Add("Vary", "HX-Request")

	c := page.Full()
	if isHTMX(r) {
		c = fragment(page)
	}
	templ.Handler(c,
		templ.WithStatus(page.Status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				h.logger.ErrorContext(r.Context(), "failed to render page",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"err", err,
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r)
}

func fragment(page views.Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<title>"+template.HTMLEscapeString(page.Title)+"</title>\n"); err != nil {
			return err
		}
		return page.Fragment().Render(ctx, w)
	})
}

// isHTMX reports whether the request was issued by htmx. History restores
// need the full document.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-History-Restore-Request") != "true"
}

// absoluteURL resolves path against the host the request was made to.
func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
