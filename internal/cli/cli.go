// Package cli implements the issuegraph command-line interface.
//
// This package provides commands for extracting issue hierarchy graphs from
// exported issue data, rendering them as diagrams, browsing them in the
// terminal, and serving the artifacts over HTTP. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - extract: Build the hierarchy graph and markdown outline from issue data
//   - render: Generate DOT or SVG diagrams from an extracted graph
//   - tree: Browse the hierarchy tree in the terminal
//   - serve: Serve extracted artifacts over HTTP
//   - cache: Manage the rendered-artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/njfio/issuegraph/pkg/buildinfo"
	"github.com/njfio/issuegraph/pkg/cache"
)

const (
	// appName is the application name used for directories and display.
	appName = "issuegraph"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "issuegraph",
		Short:        "Issuegraph extracts issue hierarchy graphs from exported issue data",
		Long:         `Issuegraph reads exported issue records, classifies every issue against a root issue's parent hierarchy, and produces a graph document and markdown outline describing the tree, its missing links, and its orphans.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Attach the logger to the command context so subcommands and the
	// packages they call can retrieve it with loggerFromContext.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.extractCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache selects a cache backend. Redis is used when the config names
// it, the file cache otherwise. Failures fall back to a null cache so
// caching problems never break a command.
func newCache(ctx context.Context, cfg *Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg != nil && cfg.Cache.Backend == cacheBackendRedis {
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/issuegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
