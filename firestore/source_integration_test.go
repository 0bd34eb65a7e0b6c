package firestore_test

import (
	"context"
	"os"
	"testing"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansik/firestore"
	"hansik/models"
)

// Requires a running emulator, e.g. `gcloud emulators firestore start`.
func TestSource_LoadRecipes_Integration(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := gcfirestore.NewClient(ctx, "hansik-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	collection := "recipes-" + uuid.NewString()
	docs := map[string]map[string]any{
		"pajeon":  {"id": "pajeon", "title": "Пхаджон", "difficulty": "easy", "tags": []string{"Закуски"}},
		"bulgogi": {"id": "bulgogi", "title": "Пулькоги", "difficulty": "Легко", "servings": 4},
	}
	for id, data := range docs {
		_, err := client.Collection(collection).Doc(id).Set(ctx, data)
		require.NoError(t, err)
	}

	src := firestore.NewSourceWithClient(client, collection)
	recipes, err := src.LoadRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	assert.Equal(t, "bulgogi", recipes[0].ID)
	assert.Equal(t, models.DifficultyEasy, recipes[0].Difficulty)
	assert.Equal(t, 4, recipes[0].Servings)
	assert.Equal(t, []string{}, recipes[0].Tags)
	assert.Equal(t, "pajeon", recipes[1].ID)
	assert.Equal(t, []string{"Закуски"}, recipes[1].Tags)
}

func TestNewSource_RequiresProject(t *testing.T) {
	t.Parallel()

	_, err := firestore.NewSource(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, models.EINVALID, models.ErrorCode(err))
}
