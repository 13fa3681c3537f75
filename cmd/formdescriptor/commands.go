package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdescriptor/pkg/formgen"
	"github.com/goliatone/go-formdescriptor/pkg/httpapi"
	"github.com/goliatone/go-formdescriptor/pkg/openapi"
	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

const shutdownTimeout = 10 * time.Second

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models defined by the OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range catalog.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

type generateFlags struct {
	endpoint    string
	method      string
	instance    string
	title       string
	successURL  string
	multipart   bool
	updateTable bool
	output      string
	interactive bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "generate [model]",
		Short: "Print the form descriptor of a model as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			catalog, err := a.catalog(ctx)
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				if !flags.interactive {
					return errors.New("a model name is required (or use --interactive)")
				}
				if name, err = a.prompt.Select(ctx, "Model", catalog.Names()); err != nil {
					return err
				}
			}
			model, err := catalog.Model(name)
			if err != nil {
				return err
			}
			if flags.endpoint == "" && flags.interactive {
				if flags.endpoint, err = a.prompt.Input(ctx, "Submit endpoint", ""); err != nil {
					return err
				}
			}

			var instance any
			if flags.instance != "" {
				if instance, err = readInstance(cmd.InOrStdin(), flags.instance); err != nil {
					return err
				}
			}

			gen, err := a.generator()
			if err != nil {
				return err
			}
			form, err := gen.Generate(ctx, formgen.Request{
				Model:       model,
				Endpoint:    flags.endpoint,
				Method:      flags.method,
				Instance:    instance,
				Title:       flags.title,
				SuccessURL:  flags.successURL,
				Multipart:   flags.multipart,
				UpdateTable: flags.updateTable,
			})
			if err != nil {
				return err
			}

			payload, err := json.MarshalIndent(form, "", "  ")
			if err != nil {
				return fmt.Errorf("encode descriptor: %w", err)
			}
			payload = append(payload, '\n')
			if flags.output != "" {
				if err := os.WriteFile(flags.output, payload, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", flags.output)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(payload)
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.endpoint, "endpoint", "", "submit endpoint of the form")
	fs.StringVar(&flags.method, "method", "", "submit method (default POST)")
	fs.StringVar(&flags.instance, "instance", "", "JSON file with the record to edit (- for stdin)")
	fs.StringVar(&flags.title, "title", "", "title message key")
	fs.StringVar(&flags.successURL, "success-url", "", "URL to open after a successful submit")
	fs.BoolVar(&flags.multipart, "multipart", false, "submit as multipart/form-data")
	fs.BoolVar(&flags.updateTable, "update-table", false, "refresh the originating table on success")
	fs.StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	fs.BoolVarP(&flags.interactive, "interactive", "i", false, "prompt for missing model and endpoint")
	return cmd
}

func readInstance(stdin io.Reader, path string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read instance: %w", err)
	}
	var instance map[string]any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("decode instance: %w", err)
	}
	if instance == nil {
		return nil, errors.New("instance must be a JSON object")
	}
	return instance, nil
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve form descriptors over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			catalog, err := a.catalog(ctx)
			if err != nil {
				return err
			}
			gen, err := a.generator()
			if err != nil {
				return err
			}
			api := httpapi.New(schema.Sources{catalog}, gen, httpapi.WithLogger(a.logger))
			return listen(ctx, a, api.Routes())
		},
	}
}

func listen(ctx context.Context, a *app, handler http.Handler) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [documents...]",
		Short: "Report unsupported x-form extensions",
		Long:  "Lint OpenAPI documents for x-form extensions the generator ignores or rejects. Without arguments the configured document is linted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if a.cfg.OpenAPI.Source == "" {
					return errors.New("no documents to lint")
				}
				args = []string{a.cfg.OpenAPI.Source}
			}
			loader := openapi.NewLoader(openapi.WithHTTPFallback(fetchTimeout))

			total := 0
			for _, raw := range args {
				src, err := openapi.ParseSource(raw)
				if err != nil {
					return err
				}
				doc, err := loader.Load(cmd.Context(), src)
				if err != nil {
					return err
				}
				violations, err := openapi.Lint(cmd.Context(), doc)
				if err != nil {
					return fmt.Errorf("lint %s: %w", raw, err)
				}
				for _, v := range violations {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", raw, v)
				}
				total += len(violations)
			}
			if total > 0 {
				return fmt.Errorf("%d x-form violation(s)", total)
			}
			return nil
		},
	}
}
