// Package firestore loads the recipe catalog from a Cloud Firestore collection.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"hansik/models"
)

// DefaultCollection is the collection recipes are read from when none is configured.
const DefaultCollection = "recipes"

var _ models.RecipeSource = (*Source)(nil)

// Source reads every document of a collection as a recipe.
type Source struct {
	client     *firestore.Client
	collection string
}

// NewSource connects to the Firestore project. Credentials are resolved the
// usual way (GOOGLE_APPLICATION_CREDENTIALS, metadata server or emulator).
func NewSource(ctx context.Context, projectID, collection string) (*Source, error) {
	if projectID == "" {
		return nil, models.Errorf(models.EINVALID, "firestore project ID required")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return NewSourceWithClient(client, collection), nil
}

// NewSourceWithClient wraps an existing client.
func NewSourceWithClient(client *firestore.Client, collection string) *Source {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Source{client: client, collection: collection}
}

// LoadRecipes returns the documents ordered by their "id" field so the
// catalog order is stable between restarts.
func (s *Source) LoadRecipes(ctx context.Context) ([]*models.Recipe, error) {
	iter := s.client.Collection(s.collection).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	recipes := []*models.Recipe{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate %s: %w", s.collection, err)
		}

		var recipe models.Recipe
		if err := doc.DataTo(&recipe); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", s.collection, doc.Ref.ID, err)
		}
		if recipe.ID == "" {
			recipe.ID = doc.Ref.ID
		}
		recipe.Normalize()
		recipes = append(recipes, &recipe)
	}
	return recipes, nil
}

// Close releases the underlying client.
func (s *Source) Close() error {
	return s.client.Close()
}
