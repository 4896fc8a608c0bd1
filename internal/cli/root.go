// Package cli contains the mindboardctl operator commands.
package cli

import (
	"fmt"
	"log/slog"

	"mindboard/internal/config"
	"mindboard/internal/db"
	"mindboard/internal/logging"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Opener connects to the database described by cfg.
type Opener func(cfg config.Config) (*gorm.DB, error)

// PostgresOpener is the production Opener.
func PostgresOpener(cfg config.Config) (*gorm.DB, error) {
	return db.Open(cfg.Database.DSN)
}

type env struct {
	open    Opener
	verbose bool
	cfg     config.Config
	logger  *slog.Logger
}

// NewRootCmd builds the command tree. open is called lazily by commands that
// need the database.
func NewRootCmd(open Opener) *cobra.Command {
	e := &env{open: open}

	root := &cobra.Command{
		Use:   "mindboardctl",
		Short: "Mindboard operator tooling",
		Long: `mindboardctl runs maintenance jobs against the mindboard database.

Example usage:
  mindboardctl migrate           # Create or update the schema
  mindboardctl orphans           # List comments no article or reply list points at
  mindboardctl orphans --purge   # Remove them together with their replies`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init()
		},
	}
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newMigrateCmd(e), newOrphansCmd(e))
	return root
}

func (e *env) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e.cfg = cfg

	level := cfg.Log.Level
	if e.verbose {
		level = "debug"
	}
	e.logger = logging.New(level)
	return nil
}

func (e *env) database() (*gorm.DB, error) {
	gdb, err := e.open(e.cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return gdb, nil
}
