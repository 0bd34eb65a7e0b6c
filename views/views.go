// Package views renders the HTML pages of the catalog. Markup lives in
// embedded html/template files; every page is exposed as a templ.Component
// so handlers render full documents and HTMX fragments the same way.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"hansik/i18n"
	"hansik/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// PlaceholderImage is shown for recipes without a picture.
const PlaceholderImage = "/static/placeholder.svg"

// Static returns the embedded assets served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page names.
const (
	pageIndex    = "index"
	pageRecipes  = "recipes"
	pageDetail   = "detail"
	pageNotFound = "notfound"
	pageError    = "error"
)

var pageNames = []string{pageIndex, pageRecipes, pageDetail, pageNotFound, pageError}

// Views holds the parsed template set of every page.
type Views struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Views, error) {
	v := &Views{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Page is a rendered view, available as a full document or as the content
// of <main> only.
type Page struct {
	Title  string
	Status int

	full     templ.Component
	fragment templ.Component
}

// Full renders the page inside the site layout.
func (p Page) Full() templ.Component { return p.full }

// Fragment renders only the page content.
func (p Page) Fragment() templ.Component { return p.fragment }

func (v *Views) page(name string, status int, title string, data any) Page {
	t := v.pages[name]
	return Page{
		Title:  title,
		Status: status,
		full: templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return t.ExecuteTemplate(w, "layout", data)
		}),
		fragment: templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return t.ExecuteTemplate(w, "content", data)
		}),
	}
}

// Layout carries what the shared chrome needs on every page.
type Layout struct {
	L         i18n.Localizer
	Title     string
	Path      string
	Year      int
	Languages []LanguageOption
}

// Copyright returns the footer notice for the current year.
func (l Layout) Copyright() string {
	return l.L.T("footer.rights", strconv.Itoa(l.Year))
}

// Categories returns the header menu entries.
func (l Layout) Categories() []Category {
	return []Category{
		{Title: l.L.T("category.main"), Icon: "🍲", URL: ListingURL(models.RecipeFilter{Tag: "Основные блюда"})},
		{Title: l.L.T("category.banchan"), Icon: "🥗", URL: ListingURL(models.RecipeFilter{Tag: "Закуски"})},
		{Title: l.L.T("category.soups"), Icon: "🍜", URL: ListingURL(models.RecipeFilter{Tag: "Супы и рагу"})},
	}
}

// Category is an entry of the header categories menu.
type Category struct {
	Title string
	Icon  string
	URL   string
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Code   string
	Label  string
	URL    string
	Active bool
}

// LanguageOptions builds the switcher for the current request URL.
func LanguageOptions(loc i18n.Localizer, u *url.URL) []LanguageOption {
	options := make([]LanguageOption, 0, len(i18n.Supported()))
	for _, tag := range i18n.Supported() {
		code := tag.String()
		query := url.Values{}
		if u != nil {
			query = u.Query()
		}
		query.Set(i18n.LangParam, code)
		path := "/"
		if u != nil && u.Path != "" {
			path = u.Path
		}
		options = append(options, LanguageOption{
			Code:   code,
			Label:  loc.T("lang." + code),
			URL:    (&url.URL{Path: path, RawQuery: query.Encode()}).String(),
			Active: code == loc.Lang(),
		})
	}
	return options
}

// RecipeURL returns the detail page path of a recipe.
func RecipeURL(id string) string {
	return "/recipe/" + url.PathEscape(id)
}

// ListingURL returns the listing path preserving the filter in the query string.
func ListingURL(f models.RecipeFilter) string {
	query := url.Values{}
	if strings.TrimSpace(f.Query) != "" {
		query.Set("q", f.Query)
	}
	if f.Tag != "" {
		query.Set("tag", f.Tag)
	}
	if f.Difficulty != "" {
		query.Set("difficulty", string(f.Difficulty))
	}
	if len(query) == 0 {
		return "/recipes"
	}
	return "/recipes?" + query.Encode()
}

// ImageURL returns the thumbnail path of a recipe at the given height.
func ImageURL(r *models.Recipe, height int) string {
	if r == nil || r.Image == "" {
		return PlaceholderImage
	}
	return fmt.Sprintf("/image/%s?h=%d", url.PathEscape(r.ID), height)
}

// DifficultyVariant returns the badge style of a difficulty.
func DifficultyVariant(d models.Difficulty) string {
	switch d {
	case models.DifficultyEasy:
		return "default"
	case models.DifficultyMedium:
		return "secondary"
	default:
		return "destructive"
	}
}

// card binds a recipe to the localizer for the card partial.
type card struct {
	L      i18n.Localizer
	Recipe *models.Recipe
}

var funcs = template.FuncMap{
	"recipeURL":         RecipeURL,
	"imageURL":          ImageURL,
	"difficultyVariant": DifficultyVariant,
	"difficultyLabel": func(l i18n.Localizer, d models.Difficulty) string {
		return l.T("difficulty." + string(d))
	},
	"card": func(l i18n.Localizer, r *models.Recipe) card {
		return card{L: l, Recipe: r}
	},
}

// IndexData feeds the landing page.
type IndexData struct {
	Layout
	Featured *models.Recipe
	Recent   []*models.Recipe
}

// Index renders the landing page.
func (v *Views) Index(d IndexData) Page {
	d.Title = d.L.T("site.title")
	return v.page(pageIndex, http.StatusOK, d.Title, d)
}

// TagOption is a toggleable tag badge of the listing filters.
type TagOption struct {
	Name     string
	Selected bool
	URL      string
}

// DifficultyOption is an entry of the difficulty select.
type DifficultyOption struct {
	Value    string
	Label    string
	Selected bool
}

// RecipesData feeds the listing page.
type RecipesData struct {
	Layout
	Filter  models.RecipeFilter
	Tags    []string
	Recipes []*models.Recipe
}

// TagOptions returns every tag with the URL that toggles it.
func (d RecipesData) TagOptions() []TagOption {
	options := make([]TagOption, 0, len(d.Tags))
	for _, tag := range d.Tags {
		f := d.Filter
		selected := f.Tag == tag
		if selected {
			f.Tag = ""
		} else {
			f.Tag = tag
		}
		options = append(options, TagOption{Name: tag, Selected: selected, URL: ListingURL(f)})
	}
	return options
}

// DifficultyOptions returns the select entries, "all" first.
func (d RecipesData) DifficultyOptions() []DifficultyOption {
	options := []DifficultyOption{{Value: "", Label: d.L.T("difficulty.all"), Selected: d.Filter.Difficulty == ""}}
	for _, diff := range models.Difficulties {
		options = append(options, DifficultyOption{
			Value:    string(diff),
			Label:    d.L.T("difficulty." + string(diff)),
			Selected: d.Filter.Difficulty == diff,
		})
	}
	return options
}

// Recipes renders the listing page.
func (v *Views) Recipes(d RecipesData) Page {
	d.Title = d.L.T("recipes.title")
	return v.page(pageRecipes, http.StatusOK, d.Title, d)
}

// DetailData feeds the recipe page.
type DetailData struct {
	Layout
	Recipe   *models.Recipe
	ShareURL string
}

// TagURL returns the listing filtered by tag.
func (d DetailData) TagURL(tag string) string {
	return ListingURL(models.RecipeFilter{Tag: tag})
}

// Detail renders a recipe page.
func (v *Views) Detail(d DetailData) Page {
	d.Title = d.Recipe.Title
	return v.page(pageDetail, http.StatusOK, d.Title, d)
}

// NotFoundData feeds the 404 page.
type NotFoundData struct {
	Layout
	// Recipe is set when the missing resource was a recipe.
	Recipe bool
}

// NotFound renders a 404 page.
func (v *Views) NotFound(d NotFoundData) Page {
	if d.Recipe {
		d.Title = d.L.T("notfound.recipe_title")
	} else {
		d.Title = d.L.T("notfound.title")
	}
	return v.page(pageNotFound, http.StatusNotFound, d.Title, d)
}

// ErrorData feeds the generic error page.
type ErrorData struct {
	Layout
	Message string
}

// Error renders an error page with the given status.
func (v *Views) Error(status int, d ErrorData) Page {
	d.Title = d.L.T("error.title")
	return v.page(pageError, status, d.Title, d)
}
