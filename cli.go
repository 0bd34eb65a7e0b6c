package main

import (
	"context"
	"io"
	"log/slog"

	"hansik/catalog"
	"hansik/config"
	"hansik/models"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Config  config.Config
	Logger  *slog.Logger
	Catalog *catalog.Catalog
	Recipes models.RecipeService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel string `name:"log-level" help:"Override HANSIK_LOG_LEVEL (debug, info, warn, error)"`

	Serve  ServeCmd  `cmd:"" help:"Run the web server"`
	Search SearchCmd `cmd:"" help:"Search the recipe catalog"`
	Tags   TagsCmd   `cmd:"" help:"List all catalog tags"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address, overrides HANSIK_HTTP_ADDR"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query      string `arg:"" optional:"" help:"Text to look for in titles, descriptions, ingredients and tags"`
	Tag        string `short:"t" help:"Only recipes with this exact tag"`
	Difficulty string `short:"d" help:"Only recipes of this difficulty (easy, medium, hard)"`
	JSON       bool   `help:"Print recipes as JSON"`
}

// TagsCmd is the "tags" subcommand.
type TagsCmd struct{}
