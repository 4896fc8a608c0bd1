package cli

import (
	"fmt"

	"mindboard/internal/db"

	"github.com/spf13/cobra"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed questionnaires",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := e.database()
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb, e.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
