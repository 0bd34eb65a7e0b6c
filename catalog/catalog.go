// Package catalog holds the recipe collection in memory and answers every
// read the web pages and the API need with a linear scan over it.
package catalog

import (
	"context"
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"hansik/models"
)

// Ensure Catalog implements models.RecipeService.
var _ models.RecipeService = (*Catalog)(nil)

// Catalog is an immutable, validated recipe collection. It is safe for
// concurrent use because nothing mutates it after New returns.
type Catalog struct {
	recipes []*models.Recipe
	byID    map[string]*models.Recipe
	tags    []string
}

// New validates recipes and builds a Catalog preserving their order.
func New(recipes []*models.Recipe) (*Catalog, error) {
	c := &Catalog{
		recipes: make([]*models.Recipe, 0, len(recipes)),
		byID:    make(map[string]*models.Recipe, len(recipes)),
	}
	seen := make(map[string]struct{})
	for i, r := range recipes {
		if r == nil {
			return nil, models.Errorf(models.EINVALID, "recipe #%d is empty", i)
		}
		r.Normalize()
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, models.Errorf(models.EINVALID, "duplicate recipe ID %q", r.ID)
		}
		c.recipes = append(c.recipes, r)
		c.byID[r.ID] = r
		for _, tag := range r.Tags {
			if _, ok := seen[tag]; ok || tag == "" {
				continue
			}
			seen[tag] = struct{}{}
			c.tags = append(c.tags, tag)
		}
	}
	collate.New(language.Russian).SortStrings(c.tags)
	return c, nil
}

// Load reads recipes from src and builds a Catalog.
func Load(ctx context.Context, src models.RecipeSource) (*Catalog, error) {
	recipes, err := src.LoadRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	return New(recipes)
}

// Len returns the number of recipes in the catalog.
func (c *Catalog) Len() int {
	return len(c.recipes)
}

func (c *Catalog) FindRecipeByID(_ context.Context, id string) (*models.Recipe, error) {
	r, ok := c.byID[id]
	if !ok {
		return nil, models.Errorf(models.ENOTFOUND, "recipe %q not found", id)
	}
	return r, nil
}

func (c *Catalog) FindRecipes(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make([]*models.Recipe, 0, len(c.recipes))
	for _, r := range c.recipes {
		if filter.Match(r) {
			result = append(result, r)
		}
	}
	return result, nil
}

// FeaturedRecipe returns the first recipe flagged as featured, falling back
// to the first recipe of the catalog.
func (c *Catalog) FeaturedRecipe(_ context.Context) (*models.Recipe, error) {
	if len(c.recipes) == 0 {
		return nil, models.Errorf(models.ENOTFOUND, "catalog is empty")
	}
	for _, r := range c.recipes {
		if r.Featured {
			return r, nil
		}
	}
	return c.recipes[0], nil
}

// RecentRecipes returns the first n recipes; the catalog lists the newest first.
func (c *Catalog) RecentRecipes(_ context.Context, n int) ([]*models.Recipe, error) {
	if n <= 0 {
		return []*models.Recipe{}, nil
	}
	n = min(n, len(c.recipes))
	result := make([]*models.Recipe, n)
	copy(result, c.recipes[:n])
	return result, nil
}

func (c *Catalog) Tags(_ context.Context) ([]string, error) {
	tags := make([]string, len(c.tags))
	copy(tags, c.tags)
	return tags, nil
}
