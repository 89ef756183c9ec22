package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-page-cache/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	paths := Paths{}

	rootCmd := &cobra.Command{
		Use:          "page-cache",
		Short:        "Time- and dependency-aware page response cache",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&paths.ConfigPath, "config",
		envOrDefault("CACHE_CONFIG_FILE", defaultConfigPath), "path to the cache configuration file")
	rootCmd.PersistentFlags().StringVar(&paths.RulesPath, "rules",
		envOrDefault("CACHE_RULES_FILE", defaultRulesPath), "path to the cache rules file")

	rootCmd.AddCommand(
		newServeCommand(&paths),
		newInitCommand(&paths),
		newValidateCommand(&paths),
	)
	return rootCmd
}

func newServeCommand(paths *Paths) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve pages through the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*paths)
		},
	}
}

func newInitCommand(paths *Paths) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the cache storage with its configured permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := NewCompositionRoot(*paths)
			if err != nil {
				return err
			}
			defer func() {
				if err := root.Cleanup(); err != nil {
					root.Logger.Error("Failed to cleanup resources", zap.Error(err))
				}
			}()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			return root.InitializeStorage(ctx)
		},
	}
}

func newValidateCommand(paths *Paths) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate configuration and cache rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := LoadCompositionRoot(*paths)
			if err != nil {
				return err
			}
			defer func() { _ = root.Cleanup() }()

			printSummary(cmd.OutOrStdout(), root)
			return nil
		},
	}
}

func runServe(paths Paths) error {
	// Initialize composition root with all dependencies
	root, err := NewCompositionRoot(paths)
	if err != nil {
		return err
	}

	// Ensure cleanup on exit
	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	err = root.InitializeStorage(initCtx)
	cancelInit()
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverCfg := root.Config.Server
		if serverCfg.SocketPath != "" {
			serverErr <- root.HTTPServer.StartUnixSocket(serverCfg.SocketPath)
			return
		}
		serverErr <- root.HTTPServer.Start(serverCfg.Addr)
	}()

	// Wait for interrupt signal or a server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			root.Logger.Error("Server failed", zap.Error(err))
			return err
		}
	}

	root.Logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := root.HTTPServer.Stop(ctx); err != nil {
		root.Logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	root.Logger.Info("Server exited")
	return nil
}

// printSummary writes the effective configuration in a human-readable form
func printSummary(w io.Writer, root *CompositionRoot) {
	cfg := root.Config
	policy := root.Policy

	fmt.Fprintf(w, "storage backend: %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendMulti {
		fmt.Fprintf(w, "tiers: %s (propagation: %t)\n", strings.Join(cfg.Storage.Multi.Tiers, ", "), cfg.Storage.Multi.EnablePropagation)
	}
	fmt.Fprintf(w, "caching enabled: %t\n", policy.Enabled())
	fmt.Fprintf(w, "default ttl: %s\n", policy.DefaultTTL())
	for _, name := range policy.RequestNames() {
		info := policy.Resolve(name)
		if info.Infinite {
			fmt.Fprintf(w, "  %s: never expires\n", name)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", name, info.TTL)
	}
	for _, source := range cfg.Artifacts {
		fmt.Fprintf(w, "artifacts: %s/*%s\n", source.Dir, source.Ext)
	}
	if cfg.Server.SocketPath != "" {
		fmt.Fprintf(w, "listen: unix:%s\n", cfg.Server.SocketPath)
	} else {
		fmt.Fprintf(w, "listen: %s\n", cfg.Server.Addr)
	}
}
