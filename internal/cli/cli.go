// Package cli implements the treejson command-line interface.
//
// The root command reads a configuration document in one of the formats
// known to package evaluator and prints it as indented JSON-like text.
// Defaults for its flags may be kept in a treejson.yaml config file or in
// TREEJSON_* environment variables.
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// appName is the application name used for directories and display.
const appName = "treejson"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}
