package views_test

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"hansik/i18n"
	"hansik/models"
	"hansik/views"
)

func TestListingURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter models.RecipeFilter
		want   string
	}{
		{name: "empty", want: "/recipes"},
		{name: "blank query", filter: models.RecipeFilter{Query: "  "}, want: "/recipes"},
		{name: "difficulty", filter: models.RecipeFilter{Difficulty: models.DifficultyHard}, want: "/recipes?difficulty=hard"},
		{
			name:   "all criteria",
			filter: models.RecipeFilter{Query: " kimchi ", Tag: "Острое", Difficulty: models.DifficultyEasy},
			want:   "/recipes?difficulty=easy&q=+kimchi+&tag=%D0%9E%D1%81%D1%82%D1%80%D0%BE%D0%B5",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, views.ListingURL(tc.filter))
		})
	}
}

func TestImageURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/image/bulgogi?h=360", views.ImageURL(&models.Recipe{ID: "bulgogi", Image: "https://x/y.jpg"}, 360))
	assert.Equal(t, views.PlaceholderImage, views.ImageURL(&models.Recipe{ID: "bulgogi"}, 360))
	assert.Equal(t, views.PlaceholderImage, views.ImageURL(nil, 360))
}

func TestRecipeURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/recipe/kimchi-jjigae", views.RecipeURL("kimchi-jjigae"))
	assert.Equal(t, "/recipe/a%2Fb", views.RecipeURL("a/b"))
}

func TestDifficultyVariant(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "default", views.DifficultyVariant(models.DifficultyEasy))
	assert.Equal(t, "secondary", views.DifficultyVariant(models.DifficultyMedium))
	assert.Equal(t, "destructive", views.DifficultyVariant(models.DifficultyHard))
}

func TestRecipesData_TagOptions(t *testing.T) {
	t.Parallel()

	d := views.RecipesData{
		Filter: models.RecipeFilter{Tag: "Рис", Difficulty: models.DifficultyEasy},
		Tags:   []string{"Мясо", "Рис"},
	}
	options := d.TagOptions()
	require.Len(t, options, 2)

	assert.False(t, options[0].Selected)
	assert.Equal(t, views.ListingURL(models.RecipeFilter{Tag: "Мясо", Difficulty: models.DifficultyEasy}), options[0].URL)

	assert.True(t, options[1].Selected)
	assert.Equal(t, "/recipes?difficulty=easy", options[1].URL)
}

func TestRecipesData_DifficultyOptions(t *testing.T) {
	t.Parallel()

	d := views.RecipesData{
		Layout: views.Layout{L: i18n.NewLocalizer(language.Russian)},
		Filter: models.RecipeFilter{Difficulty: models.DifficultyMedium},
	}
	options := d.DifficultyOptions()
	require.Len(t, options, 4)
	assert.Equal(t, views.DifficultyOption{Value: "", Label: "Все"}, options[0])
	assert.Equal(t, views.DifficultyOption{Value: "medium", Label: "Средне", Selected: true}, options[2])
}

func TestLanguageOptions(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("/recipes?tag=%D0%A0%D0%B8%D1%81&lang=ru")
	require.NoError(t, err)

	options := views.LanguageOptions(i18n.NewLocalizer(language.Russian), u)
	require.Len(t, options, 2)

	assert.Equal(t, "ru", options[0].Code)
	assert.True(t, options[0].Active)
	assert.Equal(t, "Русский", options[0].Label)

	assert.Equal(t, "en", options[1].Code)
	assert.False(t, options[1].Active)
	assert.Equal(t, "/recipes?lang=en&tag=%D0%A0%D0%B8%D1%81", options[1].URL)
}

func TestLayout_Copyright(t *testing.T) {
	t.Parallel()

	l := views.Layout{L: i18n.NewLocalizer(language.English), Year: 2025}
	assert.Equal(t, "© 2025 All rights reserved", l.Copyright())
}

func TestViews_Pages(t *testing.T) {
	t.Parallel()

	v, err := views.New()
	require.NoError(t, err)

	layout := views.Layout{L: i18n.NewLocalizer(language.Russian), Year: 2024}
	recipe := &models.Recipe{
		ID:          "pajeon",
		Title:       "Пхаджон",
		Description: "Блин с зелёным луком",
		Difficulty:  models.DifficultyEasy,
		Tags:        []string{"Закуски"},
		Ingredients: []string{"2 стакана муки"},
		Steps:       []string{"Смешайте тесто."},
	}

	t.Run("detail full and fragment", func(t *testing.T) {
		t.Parallel()

		page := v.Detail(views.DetailData{Layout: layout, Recipe: recipe, ShareURL: "http://example.com/recipe/pajeon"})
		assert.Equal(t, "Пхаджон", page.Title)
		assert.Equal(t, http.StatusOK, page.Status)

		var full bytes.Buffer
		require.NoError(t, page.Full().Render(context.Background(), &full))
		assert.Contains(t, full.String(), "<title>Пхаджон · Корейская Кулинария</title>")
		assert.Contains(t, full.String(), "2 стакана муки")

		var frag bytes.Buffer
		require.NoError(t, page.Fragment().Render(context.Background(), &frag))
		assert.Contains(t, frag.String(), "Смешайте тесто.")
		assert.NotContains(t, frag.String(), "<html")
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		page := v.NotFound(views.NotFoundData{Layout: layout, Recipe: true})
		assert.Equal(t, http.StatusNotFound, page.Status)
		assert.Equal(t, "Рецепт не найден", page.Title)
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		page := v.Error(http.StatusBadRequest, views.ErrorData{Layout: layout, Message: "bad <input>"})
		assert.Equal(t, http.StatusBadRequest, page.Status)

		var buf bytes.Buffer
		require.NoError(t, page.Fragment().Render(context.Background(), &buf))
		assert.Contains(t, buf.String(), "bad &lt;input&gt;")
	})

	t.Run("empty listing", func(t *testing.T) {
		t.Parallel()

		page := v.Recipes(views.RecipesData{Layout: layout, Recipes: []*models.Recipe{}})

		var buf bytes.Buffer
		require.NoError(t, page.Fragment().Render(context.Background(), &buf))
		assert.Contains(t, buf.String(), "Ничего не найдено")
	})
}
