package mock

import (
	"context"

	"hansik/models"
)

var _ models.RecipeService = (*RecipeService)(nil)

// RecipeService is a mock implementation of models.RecipeService.
type RecipeService struct {
	FindRecipeByIDFn func(ctx context.Context, id string) (*models.Recipe, error)
	FindRecipesFn    func(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error)
	FeaturedRecipeFn func(ctx context.Context) (*models.Recipe, error)
	RecentRecipesFn  func(ctx context.Context, n int) ([]*models.Recipe, error)
	TagsFn           func(ctx context.Context) ([]string, error)
}

func (s *RecipeService) FindRecipeByID(ctx context.Context, id string) (*models.Recipe, error) {
	return s.FindRecipeByIDFn(ctx, id)
}

func (s *RecipeService) FindRecipes(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error) {
	return s.FindRecipesFn(ctx, filter)
}

func (s *RecipeService) FeaturedRecipe(ctx context.Context) (*models.Recipe, error) {
	return s.FeaturedRecipeFn(ctx)
}

func (s *RecipeService) RecentRecipes(ctx context.Context, n int) ([]*models.Recipe, error) {
	return s.RecentRecipesFn(ctx, n)
}

func (s *RecipeService) Tags(ctx context.Context) ([]string, error) {
	return s.TagsFn(ctx)
}

var _ models.RecipeSource = (*RecipeSource)(nil)

// RecipeSource is a mock implementation of models.RecipeSource.
type RecipeSource struct {
	LoadRecipesFn func(ctx context.Context) ([]*models.Recipe, error)
}

func (s *RecipeSource) LoadRecipes(ctx context.Context) ([]*models.Recipe, error) {
	return s.LoadRecipesFn(ctx)
}
