package handlers

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"hansik/models"
)

// parseFilter reads the listing filter from q, tag and difficulty.
func parseFilter(query url.Values) (models.RecipeFilter, error) {
	difficulty, err := models.ParseDifficulty(query.Get("difficulty"))
	if err != nil {
		return models.RecipeFilter{}, err
	}
	return models.RecipeFilter{
		Query:      query.Get("q"),
		Tag:        query.Get("tag"),
		Difficulty: difficulty,
	}, nil
}

// GetRecipes returns the recipes matching the filter in the query string.
func (h *Handler) GetRecipes(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.jsonError(w, r, err)
		return
	}

	recipes, err := h.recipes.FindRecipes(r.Context(), filter)
	if err != nil {
		h.jsonError(w, r, err)
		return
	}
	h.metrics.ObserveSearch(filter, len(recipes))

	h.writeJSON(w, r, http.StatusOK, recipes)
}

// GetRecipe returns a single recipe by its ID.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.recipes.FindRecipeByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.jsonError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, recipe)
}

// GetTags returns every distinct tag of the catalog.
func (h *Handler) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.recipes.Tags(r.Context())
	if err != nil {
		h.jsonError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, tags)
}
