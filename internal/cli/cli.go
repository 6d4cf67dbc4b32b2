// Package cli implements the chemdeck command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chemdeck/chemdeck/pkg/buildinfo"
	"github.com/chemdeck/chemdeck/pkg/cache"
	"github.com/chemdeck/chemdeck/pkg/dataset"
	"github.com/chemdeck/chemdeck/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "chemdeck"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "chemdeck",
		Short:        "Chemdeck visualizes chemistry and particle datasets as card layouts",
		Long:         `Chemdeck is a CLI tool for arranging molecules, particles, hadrons, elements and alloys into visual card layouts, with twenty-three layout modes from simple grids to Eightfold Way charts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.datasetsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The runner reads the
// editable dataset store so local edits show up in every command.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newStore()
	if err != nil {
		return nil, err
	}
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, cc, nil, c.Logger)
	if anyModified(store) {
		runner.Fingerprint = "edited"
	}
	return runner, nil
}

// newStore opens the editable dataset store in the data directory.
func newStore() (*dataset.FileStore, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return dataset.NewFileStore(dir)
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// anyModified reports whether any category carries local edits.
func anyModified(store *dataset.FileStore) bool {
	for _, category := range dataset.Categories() {
		if store.Modified(category) {
			return true
		}
	}
	return false
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/chemdeck/).
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

// dataDir returns the editable dataset directory using the XDG standard
// (~/.local/share/chemdeck/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatPNG}
	}
	return strings.Split(s, ",")
}
