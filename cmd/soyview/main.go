// Package main is the entry point for the soyview server.
// It loads configuration, wires the template, locale, bundle and compiler
// resolvers, sets up routing, and starts the HTTP server with graceful
// shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"soyview/internal/bundle"
	"soyview/internal/cache"
	"soyview/internal/compile"
	"soyview/internal/config"
	"soyview/internal/handlers"
	"soyview/internal/locale"
	"soyview/internal/router"
	"soyview/internal/soyjs"
	"soyview/internal/template"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"debug", cfg.Debug,
	)

	if err := run(cfg); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	files, err := template.NewDirResolver(cfg.TemplatesDir, cfg.TemplatesHotReload)
	if err != nil {
		return err
	}

	var bundles bundle.Resolver = bundle.Empty{}
	if cfg.MessagesDir != "" {
		dr := bundle.NewDirResolver(cfg.MessagesDir, cfg.FallbackToEnglish, cfg.TemplatesHotReload)
		dr.Prefix = cfg.MessagesPrefix
		bundles = dr
		slog.Info("message bundles enabled", "dir", cfg.MessagesDir, "prefix", cfg.MessagesPrefix)
	}

	compiler, err := compile.NewExec(cfg.CompilerCommand, cfg.CompilerArgs)
	if err != nil {
		return err
	}

	opts := soyjs.Options{
		CacheControl: cfg.CacheControl,
		Debug:        cfg.Debug,
		Files:        files,
		Compiler:     compiler,
		Bundles:      bundles,
		Locales:      locale.NewAcceptHeader(cfg.DefaultLocale, cfg.SupportedLocales),
	}

	// Shared compiled-template store in Valkey (optional).
	if cfg.ValkeyEnabled() {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := cache.ConnectValkey(connectCtx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		cancel()
		if err != nil {
			return err
		}
		defer client.Close()
		opts.Store = cache.NewScriptStore(client, cfg.ScriptTTL)
	} else {
		slog.Warn("valkey not configured, compiled templates are cached in memory only")
	}

	service := soyjs.New(opts)
	r := router.New(handlers.NewScripts(service))

	// WriteTimeout must accommodate a cold compile, which starts a JVM.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Addr(), "templates", files.Root())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// The index is rescanned per request under hot reload; otherwise keep it
	// current from filesystem events.
	if !cfg.TemplatesHotReload {
		g.Go(func() error {
			if err := files.Watch(gctx); err != nil {
				slog.Warn("template watcher stopped, new templates need a restart", "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// Give active requests up to 30 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
