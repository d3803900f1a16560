// Command copilot-mcp-http starts the MCP HTTP server.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"copilot-mcp/internal/builtins"
	"copilot-mcp/internal/search"
	"copilot-mcp/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "copilot-mcp-http",
		Short:         "MCP tool server over HTTP",
		Long:          `copilot-mcp-http serves get-project-info, get-environment-tools and rag-search over JSON-RPC on /mcp, guarded by a shared bearer secret.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}
	v := bindConfig(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(v)
		if err != nil {
			return err
		}
		logger, err := setupLogger(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		return run(cmd.Context(), cfg, logger)
	}
	return cmd
}

func setupLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.Config{
		Level:            lvl,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	switch format {
	case "json":
	case "console":
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q: want json or console", format)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

func run(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	if cfg.InvalidHost != "" {
		logger.Warn("HOST is not a valid address; binding to default",
			zap.String("host", cfg.InvalidHost),
			zap.String("fallback", cfg.Host),
		)
	}
	if cfg.APIKey == "" {
		logger.Warn("MCP_API_KEY not set; running in DEVELOPMENT MODE with authentication disabled. Set MCP_API_KEY to secure /tools and /mcp.")
	}

	source, cleanup, err := newSearchSource(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	registry, err := builtins.NewRegistry(search.NewEngine(source, logger))
	if err != nil {
		return fmt.Errorf("building tool registry: %w", err)
	}

	srv := server.New(server.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Secret:          cfg.APIKey,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, registry, logger)

	base := "http://" + net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	authMode := "bearer"
	if srv.DevMode() {
		authMode = "disabled"
	}
	logger.Info("starting MCP HTTP server",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("auth", authMode),
		zap.Int("tools", registry.Len()),
		zap.String("mcp_endpoint", base+"/mcp"),
		zap.String("health_endpoint", base+"/health"),
		zap.String("tools_endpoint", base+"/tools"),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("termination signal received")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newSearchSource returns the remote search client when SEARCH_URL is set
// and otherwise an in-memory index over the built-in catalog.
func newSearchSource(cfg *Config, logger *zap.Logger) (search.Source, func(), error) {
	if cfg.SearchURL != "" {
		logger.Info("rag-search uses remote source", zap.String("url", cfg.SearchURL))
		return search.NewClient(cfg.SearchURL, cfg.SearchAPIKey, nil), func() {}, nil
	}
	index, err := search.NewIndex(builtins.Corpus())
	if err != nil {
		return nil, nil, fmt.Errorf("building search index: %w", err)
	}
	logger.Info("rag-search uses built-in index", zap.Int("documents", index.Len()))
	return index, func() { _ = index.Close() }, nil
}
