package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aaronzipp/escape-the-upside-down/internal/config"
	"github.com/aaronzipp/escape-the-upside-down/internal/game"
	"github.com/aaronzipp/escape-the-upside-down/internal/handlers"
	"github.com/aaronzipp/escape-the-upside-down/internal/logging"
	"github.com/aaronzipp/escape-the-upside-down/internal/sse"
	"github.com/aaronzipp/escape-the-upside-down/internal/store"
	"github.com/aaronzipp/escape-the-upside-down/internal/story"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the escape HTTP service",
		Long: `Run the escape HTTP service.

Configuration comes from defaults, ./escape.yaml (or --config), a .env file
and ESCAPE_* environment variables, in increasing order of precedence.
Flags override everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, rootOpts)
			if err != nil {
				return err
			}
			logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().String("addr", "", "listen address, e.g. :8000")
	cmd.Flags().String("public-url", "", "externally reachable base URL used in share links")

	return cmd
}

// loadConfig merges every configuration source, flags last
func loadConfig(cmd *cobra.Command, opts *RootOptions) (*config.Config, error) {
	if opts.EnvFile != "" {
		if err := config.LoadDotEnv(opts.EnvFile); err != nil {
			return nil, err
		}
	}

	v, err := config.NewViper(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd, map[string]string{
		"server.addr":       "addr",
		"server.public_url": "public-url",
		"log.level":         "log-level",
		"log.format":        "log-format",
	}); err != nil {
		return nil, err
	}
	return config.Load(v)
}

// bindFlags binds the named flags that exist on cmd; unchanged flags leave
// the lower-precedence sources in charge
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// NewHandler assembles the engine and the HTTP handler for cfg
func NewHandler(cfg *config.Config, logger *slog.Logger) http.Handler {
	engine := game.NewEngine(store.NewTeamStore(), game.WithLogger(logger))
	hub := sse.NewHub(logger)
	ctx := handlers.NewContext(engine, hub, story.Default(), logger, cfg.Server.PublicURL)
	return ctx.Routes(cfg.CORS.AllowedOrigins)
}

// Serve listens on the configured address until ctx is done
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}
	return ServeListener(ctx, ln, cfg, logger)
}

// ServeListener serves on ln and shuts down gracefully once ctx is done
func ServeListener(ctx context.Context, ln net.Listener, cfg *config.Config, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:      NewHandler(cfg, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", ln.Addr().String(), "public_url", cfg.Server.PublicURL)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
