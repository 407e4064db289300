package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/topolanekmartin/apollo-cache-manager/internal/config"
	"github.com/topolanekmartin/apollo-cache-manager/internal/eventbus"
	"github.com/topolanekmartin/apollo-cache-manager/internal/logging"
	"github.com/topolanekmartin/apollo-cache-manager/internal/otel"
	"github.com/topolanekmartin/apollo-cache-manager/internal/workbench"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if terr := a.teardown(ctx); err == nil {
		err = terr
	}
	return err
}

// app carries the persistent flags and the session built from them.
type app struct {
	stdout io.Writer

	configPath   string
	schemaPath   string
	cachePath    string
	logLevel     string
	logFormat    string
	otelEndpoint string

	log      *zap.Logger
	session  *workbench.Session
	shutdown func(context.Context) error
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cachemgr",
		Short: "Inspect GraphQL schemas and client cache snapshots offline",
		Long: `cachemgr loads a GraphQL schema (introspection JSON or SDL) and a normalized
client cache snapshot, then synthesizes form data, composes cache write
fragments and browses cached entities.

Settings come from an optional YAML file (--config) and are overridden by flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.schemaPath, "schema", "", "schema file: introspection result (.json) or SDL")
	pf.StringVar(&a.cachePath, "cache", "", "cache snapshot JSON file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&a.logFormat, "log-format", "", "log format (console or json)")
	pf.StringVar(&a.otelEndpoint, "otel-endpoint", "", "OTLP/gRPC collector endpoint; empty disables tracing")

	root.AddCommand(
		newTypesCmd(a),
		newSDLCmd(a),
		newMockCmd(a),
		newFragmentCmd(a),
		newEntitiesCmd(a),
		newBrowseCmd(a),
		newResolveCmd(a),
		newIntrospectionQueryCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("schema", &cfg.Schema, a.schemaPath)
	override("cache", &cfg.Cache, a.cachePath)
	override("log-level", &cfg.Log.Level, a.logLevel)
	override("log-format", &cfg.Log.Format, a.logFormat)
	override("otel-endpoint", &cfg.OTel.Endpoint, a.otelEndpoint)
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.log, err = logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	bus := eventbus.New()
	a.shutdown, err = otel.Setup(ctx, bus, cfg.OTel.Endpoint, cfg.OTel.Service)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}

	a.session = workbench.New(
		workbench.WithLogger(a.log),
		workbench.WithBus(bus),
		workbench.WithSynthDepths(cfg.Synth.MaxDepth, cfg.Synth.ItemMaxDepth),
		workbench.WithDocumentMaxDepth(cfg.Document.MaxDepth),
		workbench.WithNameSuffix(cfg.Document.NameSuffix),
		workbench.WithIndexSize(cfg.Entities.IndexSize),
	)
	if cfg.Schema != "" {
		if err := a.loadSchema(ctx, cfg.Schema); err != nil {
			return err
		}
	}
	if cfg.Cache != "" {
		data, err := os.ReadFile(cfg.Cache)
		if err != nil {
			return err
		}
		if err := a.session.LoadCache(ctx, data); err != nil {
			return fmt.Errorf("load cache %s: %w", cfg.Cache, err)
		}
	}
	return nil
}

// loadSchema treats .json files as introspection results and anything
// else as SDL.
func (a *app) loadSchema(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = a.session.LoadIntrospection(ctx, data)
	} else {
		err = a.session.LoadSDL(ctx, filepath.Base(path), string(data))
	}
	if err != nil {
		return fmt.Errorf("load schema %s: %w", path, err)
	}
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			return err
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return nil
}
