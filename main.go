package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"hansik/catalog"
	"hansik/config"
	"hansik/firestore"
	"hansik/logging"
	"hansik/models"
	hslog "hansik/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config overrides the environment. Set before calling Run().
	Config *config.Config

	// Source overrides the configured catalog source.
	Source models.RecipeSource

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases the catalog source.
func (m *Main) Close() error {
	var firstErr error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("hansik"),
		kong.Description("Korean recipe catalog"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'hansik --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := m.config(cli)
	if err != nil {
		return err
	}

	// Only the server logs by default; sub-commands keep stdout clean.
	logger := logging.Discard()
	if kongCtx.Command() == "serve" || cli.LogLevel != "" {
		logger = logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	}

	src, err := m.source(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	cat, err := catalog.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("catalog loaded", "source", cfg.CatalogSource, "recipes", cat.Len())

	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Config:  cfg,
		Logger:  logger,
		Catalog: cat,
		Recipes: hslog.NewRecipeService(cat, logger),
	}
	return kongCtx.Run(deps)
}

// config loads settings from the environment, or Main.Config, and applies
// command-line overrides.
func (m *Main) config(cli *CLI) (config.Config, error) {
	var cfg config.Config
	if m.Config != nil {
		cfg = *m.Config
	} else {
		var err error
		if cfg, err = config.Load(); err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if cli.Serve.Addr != "" {
		cfg.HTTPAddr = cli.Serve.Addr
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %s", models.ErrorMessage(err))
	}
	return cfg, nil
}

// source opens the catalog source selected by cfg.
func (m *Main) source(ctx context.Context, cfg config.Config) (models.RecipeSource, error) {
	if m.Source != nil {
		return m.Source, nil
	}
	switch cfg.CatalogSource {
	case config.SourceFile:
		return catalog.FileSource{Path: cfg.CatalogFile}, nil
	case config.SourceFirestore:
		src, err := firestore.NewSource(ctx, cfg.FirestoreProject, cfg.FirestoreCollection)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to firestore: %w", err)
		}
		m.closers = append(m.closers, src)
		return src, nil
	default:
		return catalog.EmbeddedSource(), nil
	}
}
