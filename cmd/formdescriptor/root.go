package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdescriptor/internal/logger"
	"github.com/goliatone/go-formdescriptor/pkg/config"
	"github.com/goliatone/go-formdescriptor/pkg/formgen"
	"github.com/goliatone/go-formdescriptor/pkg/messages"
	"github.com/goliatone/go-formdescriptor/pkg/openapi"
)

const fetchTimeout = 15 * time.Second

// app carries the state shared by subcommands after configuration loads.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	prompt Prompter
}

func newRootCmd(prompt Prompter) *cobra.Command {
	a := &app{prompt: prompt, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "formdescriptor",
		Short:         "Generate form descriptors from OpenAPI component schemas",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			cfg, err := config.Load("", cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			level, err := logger.ParseLevel(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			a.cfg = cfg
			a.logger = logger.New(logger.Config{
				Level:     level,
				Pretty:    cfg.Log.Pretty,
				Output:    cmd.ErrOrStderr(),
				Component: "formdescriptor",
			})
			return nil
		},
	}
	config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newModelsCmd(a),
		newGenerateCmd(a),
		newServeCmd(a),
		newLintCmd(a),
	)
	return root
}

// catalog loads the configured OpenAPI document.
func (a *app) catalog(ctx context.Context) (*openapi.Catalog, error) {
	if a.cfg.OpenAPI.Source == "" {
		return nil, fmt.Errorf("an OpenAPI document is required (--openapi or openapi.source)")
	}
	src, err := openapi.ParseSource(a.cfg.OpenAPI.Source)
	if err != nil {
		return nil, err
	}
	loader := openapi.NewLoader(openapi.WithHTTPFallback(fetchTimeout))

	var opts []openapi.CatalogOption
	if a.cfg.OpenAPI.Namespace != "" {
		opts = append(opts, openapi.WithNamespace(a.cfg.OpenAPI.Namespace))
	}
	catalog, err := openapi.Load(ctx, loader, src, opts...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("source", src.Location()).Int("models", len(catalog.Names())).Msg("catalog loaded")
	return catalog, nil
}

// generator builds a generator backed by the configured message catalogs.
func (a *app) generator() (*formgen.Generator, error) {
	locale := a.cfg.LocaleTag()

	var resolver messages.Resolver
	if dir := a.cfg.Messages.Dir; dir != "" {
		bundle, err := messages.LoadFS(os.DirFS(dir), a.cfg.FallbackTag())
		if err != nil {
			return nil, fmt.Errorf("messages: %w", err)
		}
		a.logger.Debug().Str("dir", dir).Int("locales", len(bundle.Locales())).Msg("messages loaded")
		resolver = bundle
	}

	return formgen.New(resolver,
		formgen.WithLogger(a.logger),
		formgen.WithDefaultLocale(locale),
		formgen.WithMaxDepth(a.cfg.Generator.MaxDepth),
		formgen.WithDateLayout(a.cfg.Generator.DateLayout),
	), nil
}
