// Package cli implements the linkza command-line interface.
//
// The main commands are:
//   - serve: run the layout API server
//   - preview: render a profile's tile grid in the terminal, with an
//     interactive edit mode
//   - seed-admin: create or promote an admin account
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/maajidpp/linkza/pkg/buildinfo"
)

const appName = "linkza"

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
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Linkza is a link-in-bio dashboard service",
		Long:         `Linkza serves and edits tile-based profile layouts: a grid of profile, social, link, and media tiles that is dragged into shape and persisted per user.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.seedAdminCommand())
	root.AddCommand(c.completionCommand())

	return root
}
