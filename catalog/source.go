package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"hansik/models"
)

//go:embed recipes.yaml
var embeddedRecipes []byte

// document is the on-disk layout of a catalog file.
type document struct {
	Recipes []*models.Recipe `yaml:"recipes"`
}

// Decode reads a YAML catalog document. Unknown keys are rejected so typos
// in hand-edited files surface at start-up.
func Decode(r io.Reader) ([]*models.Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return []*models.Recipe{}, nil
		}
		return nil, models.Errorf(models.EINVALID, "decode catalog: %v", err)
	}
	if doc.Recipes == nil {
		doc.Recipes = []*models.Recipe{}
	}
	return doc.Recipes, nil
}

// EmbeddedSource returns the catalog compiled into the binary.
func EmbeddedSource() models.RecipeSource {
	return sourceFunc(func(context.Context) ([]*models.Recipe, error) {
		return Decode(bytes.NewReader(embeddedRecipes))
	})
}

// FileSource reads a YAML catalog from Path.
type FileSource struct {
	Path string
}

func (s FileSource) LoadRecipes(_ context.Context) ([]*models.Recipe, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

type sourceFunc func(ctx context.Context) ([]*models.Recipe, error)

func (fn sourceFunc) LoadRecipes(ctx context.Context) ([]*models.Recipe, error) {
	return fn(ctx)
}
