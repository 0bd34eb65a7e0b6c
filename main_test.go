package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	main "hansik"
	"hansik/config"
	"hansik/mock"
	"hansik/models"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)
	return &cfg
}

func run(t *testing.T, m *main.Main, args ...string) (string, string, error) {
	t.Helper()

	if m.Config == nil {
		m.Config = defaultConfig(t)
	}
	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, main.NewMain(), "--help")
	require.NoError(t, err)
	for _, cmd := range []string{"serve", "search", "tags"} {
		assert.Contains(t, stdout, cmd)
	}
	assert.Contains(t, stdout, "Usage:")
}

func TestMain_Run_NoArguments(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, main.NewMain())
	require.Error(t, err)
}

func TestMain_Run_Search(t *testing.T) {
	t.Parallel()

	t.Run("query", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, main.NewMain(), "search", "женьшен")
		require.NoError(t, err)
		assert.Contains(t, stdout, "samgyetang")
		assert.Contains(t, stdout, "Самгетхан")
		assert.Equal(t, 1, strings.Count(stdout, "\n"))
	})

	t.Run("json with filters", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, main.NewMain(), "search", "--json", "-d", "hard")
		require.NoError(t, err)

		var got []models.Recipe
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "kimchi", got[0].ID)
		assert.Equal(t, "samgyetang", got[1].ID)
	})

	t.Run("tag", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, main.NewMain(), "search", "--tag", "Лапша")
		require.NoError(t, err)
		assert.Contains(t, stdout, "japchae")
		assert.NotContains(t, stdout, "bulgogi")
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, main.NewMain(), "search", "pizza")
		require.NoError(t, err)
		assert.Equal(t, "No recipes found.\n", stdout)
	})

	t.Run("invalid difficulty", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, main.NewMain(), "search", "-d", "extreme")
		require.Error(t, err)
		assert.Contains(t, stderr, "unknown difficulty")
	})
}

func TestMain_Run_Tags(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, main.NewMain(), "tags")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 10)
	assert.Contains(t, lines, "Острое")
}

func TestMain_Run_FileSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "recipes.yaml")
	data := `recipes:
  - id: hotteok
    title: Хотток
    description: Сладкие блинчики с начинкой
    prepTime: 20 мин
    cookTime: 15 мин
    servings: 4
    difficulty: easy
    tags: [Десерты]
    ingredients: [мука, сахар]
    steps: [Замесите тесто.]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg := defaultConfig(t)
	cfg.CatalogSource = config.SourceFile
	cfg.CatalogFile = path

	stdout, _, err := run(t, &main.Main{Config: cfg}, "tags")
	require.NoError(t, err)
	assert.Equal(t, "Десерты\n", stdout)
}

func TestMain_Run_SourceError(t *testing.T) {
	t.Parallel()

	m := &main.Main{Source: &mock.RecipeSource{
		LoadRecipesFn: func(ctx context.Context) ([]*models.Recipe, error) {
			return nil, errors.New("unavailable")
		},
	}}
	_, _, err := run(t, m, "tags")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestMain_Run_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, main.NewMain(), "--log-level", "loud", "tags")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestMain_Run_Serve(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig(t)
	cfg.HTTPAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	err := (&main.Main{Config: cfg}).Run(ctx, []string{"serve"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "catalog loaded")
}
