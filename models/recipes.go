package models

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
)

// Difficulty describes how demanding a recipe is to cook.
type Difficulty string

// Difficulty levels, from the simplest to the most demanding.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every known difficulty in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// difficultyAliases maps the labels the catalog has historically used.
var difficultyAliases = map[string]Difficulty{
	"легко":  DifficultyEasy,
	"средне": DifficultyMedium,
	"сложно": DifficultyHard,
	"normal": DifficultyMedium,
}

// ParseDifficulty converts a key or a display label into a Difficulty.
// An empty string yields the empty Difficulty, which matches any recipe.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, d := range Difficulties {
		if string(d) == s {
			return d, nil
		}
	}
	if d, ok := difficultyAliases[s]; ok {
		return d, nil
	}
	return "", Errorf(EINVALID, "unknown difficulty %q", s)
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

// Recipe represents a single catalog entry.
type Recipe struct {
	ID          string     `json:"id" yaml:"id" firestore:"id"`
	Title       string     `json:"title" yaml:"title" firestore:"title"`
	Description string     `json:"description" yaml:"description" firestore:"description"`
	Image       string     `json:"image" yaml:"image" firestore:"image"`
	PrepTime    string     `json:"prepTime" yaml:"prepTime" firestore:"prepTime"`
	CookTime    string     `json:"cookTime" yaml:"cookTime" firestore:"cookTime"`
	Servings    int        `json:"servings" yaml:"servings" firestore:"servings"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty" firestore:"difficulty"`
	Tags        []string   `json:"tags" yaml:"tags" firestore:"tags"`
	Ingredients []string   `json:"ingredients" yaml:"ingredients" firestore:"ingredients"`
	Steps       []string   `json:"steps" yaml:"steps" firestore:"steps"`
	Featured    bool       `json:"featured,omitempty" yaml:"featured" firestore:"featured"`
}

// Normalize trims identifying fields, resolves difficulty labels and
// ensures slices are not nil.
func (r *Recipe) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Title = strings.TrimSpace(r.Title)
	if d, err := ParseDifficulty(string(r.Difficulty)); err == nil {
		r.Difficulty = d
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
}

// Validate returns an error if the recipe contains invalid fields.
func (r *Recipe) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "recipe ID required")
	}
	if r.Title == "" {
		return Errorf(EINVALID, "recipe %q: title required", r.ID)
	}
	if !r.Difficulty.Valid() {
		return Errorf(EINVALID, "recipe %q: unknown difficulty %q", r.ID, r.Difficulty)
	}
	if r.Servings < 0 {
		return Errorf(EINVALID, "recipe %q: servings must not be negative", r.ID)
	}
	return nil
}

// HasTag reports whether the recipe carries exactly the given tag.
func (r *Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RecipeFilter narrows a recipe listing. Zero-valued fields match everything
// and set fields are combined with AND.
type RecipeFilter struct {
	// Query is matched case-insensitively as a substring of the title,
	// description, any ingredient or any tag. Surrounding spaces are part of
	// the substring. A blank query matches everything.
	Query string

	// Tag must be present verbatim in the recipe tags.
	Tag string

	Difficulty Difficulty
}

// IsZero reports whether the filter has no criteria.
func (f RecipeFilter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && f.Tag == "" && f.Difficulty == ""
}

// Match reports whether the recipe satisfies every criterion of the filter.
func (f RecipeFilter) Match(r *Recipe) bool {
	if r == nil {
		return false
	}
	if f.Tag != "" && !r.HasTag(f.Tag) {
		return false
	}
	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}
	if strings.TrimSpace(f.Query) == "" {
		return true
	}

	fold := cases.Fold()
	query := fold.String(f.Query)
	contains := func(s string) bool {
		return strings.Contains(fold.String(s), query)
	}
	if contains(r.Title) || contains(r.Description) {
		return true
	}
	for _, ingredient := range r.Ingredients {
		if contains(ingredient) {
			return true
		}
	}
	for _, tag := range r.Tags {
		if contains(tag) {
			return true
		}
	}
	return false
}

// RecipeService represents a read-only service over the recipe catalog.
type RecipeService interface {
	// FindRecipeByID retrieves a recipe by ID.
	// Returns ENOTFOUND if recipe does not exist.
	FindRecipeByID(ctx context.Context, id string) (*Recipe, error)

	// FindRecipes retrieves recipes matching the filter in catalog order.
	FindRecipes(ctx context.Context, filter RecipeFilter) ([]*Recipe, error)

	// FeaturedRecipe returns the recipe promoted on the landing page.
	// Returns ENOTFOUND if the catalog is empty.
	FeaturedRecipe(ctx context.Context) (*Recipe, error)

	// RecentRecipes returns up to n of the most recently added recipes.
	RecentRecipes(ctx context.Context, n int) ([]*Recipe, error)

	// Tags returns every distinct tag used in the catalog.
	Tags(ctx context.Context) ([]string, error)
}

// RecipeSource loads the raw recipe collection from where it is kept.
type RecipeSource interface {
	LoadRecipes(ctx context.Context) ([]*Recipe, error)
}
