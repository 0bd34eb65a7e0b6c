// Package slog decorates services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"hansik/models"
)

// Ensure RecipeService implements models.RecipeService.
var _ models.RecipeService = (*RecipeService)(nil)

// RecipeService wraps a models.RecipeService with debug logging of every
// lookup and warnings for failed ones.
type RecipeService struct {
	next   models.RecipeService
	logger *slog.Logger
}

// NewRecipeService creates a new logging RecipeService.
func NewRecipeService(next models.RecipeService, logger *slog.Logger) *RecipeService {
	return &RecipeService{next: next, logger: logger}
}

func (s *RecipeService) FindRecipeByID(ctx context.Context, id string) (*models.Recipe, error) {
	begin := time.Now()
	r, err := s.next.FindRecipeByID(ctx, id)
	s.log(ctx, err, "find recipe", "id", id, "duration", time.Since(begin))
	return r, err
}

func (s *RecipeService) FindRecipes(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error) {
	begin := time.Now()
	recipes, err := s.next.FindRecipes(ctx, filter)
	s.log(ctx, err, "find recipes",
		"query", filter.Query,
		"tag", filter.Tag,
		"difficulty", string(filter.Difficulty),
		"results", len(recipes),
		"duration", time.Since(begin),
	)
	return recipes, err
}

func (s *RecipeService) FeaturedRecipe(ctx context.Context) (*models.Recipe, error) {
	r, err := s.next.FeaturedRecipe(ctx)
	if r != nil {
		s.log(ctx, err, "featured recipe", "id", r.ID)
	} else {
		s.log(ctx, err, "featured recipe")
	}
	return r, err
}

func (s *RecipeService) RecentRecipes(ctx context.Context, n int) ([]*models.Recipe, error) {
	recipes, err := s.next.RecentRecipes(ctx, n)
	s.log(ctx, err, "recent recipes", "n", n, "results", len(recipes))
	return recipes, err
}

func (s *RecipeService) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.next.Tags(ctx)
	s.log(ctx, err, "tags", "results", len(tags))
	return tags, err
}

// log records the call at debug level. Lookups of missing recipes are
// expected traffic and stay at debug; anything else failing is a warning.
func (s *RecipeService) log(ctx context.Context, err error, msg string, args ...any) {
	if err == nil {
		s.logger.DebugContext(ctx, msg, args...)
		return
	}
	args = append(args, "err", err)
	if models.ErrorCode(err) == models.ENOTFOUND {
		s.logger.DebugContext(ctx, msg, args...)
		return
	}
	s.logger.WarnContext(ctx, msg, args...)
}
