package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"hansik/models"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	difficulty, err := models.ParseDifficulty(c.Difficulty)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", models.ErrorMessage(err))
		return err
	}

	recipes, err := deps.Recipes.FindRecipes(deps.Ctx, models.RecipeFilter{
		Query:      c.Query,
		Tag:        c.Tag,
		Difficulty: difficulty,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", models.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recipes)
	}

	if len(recipes) == 0 {
		fmt.Fprintln(deps.Stdout, "No recipes found.")
		return nil
	}

	tw := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Title, r.Difficulty, r.PrepTime)
	}
	return tw.Flush()
}

// Run executes the tags command.
func (c *TagsCmd) Run(deps *Dependencies) error {
	tags, err := deps.Recipes.Tags(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", models.ErrorMessage(err))
		return err
	}
	for _, tag := range tags {
		fmt.Fprintln(deps.Stdout, tag)
	}
	return nil
}
