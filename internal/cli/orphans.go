package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"mindboard/internal/services"

	"github.com/spf13/cobra"
)

func newOrphansCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "Find comments left behind by deleted articles or failed links",
		Long: `Scan the comment table for rows whose article is gone or that no
comment list or reply list references.

Examples:
  mindboardctl orphans           # Report only
  mindboardctl orphans --purge   # Delete orphans and the replies under them`,
		RunE: func(cmd *cobra.Command, args []string) error {
			purge, _ := cmd.Flags().GetBool("purge")
			return runOrphans(cmd, e, purge)
		},
	}
	cmd.Flags().Bool("purge", false, "delete the orphans and their replies")
	return cmd
}

func runOrphans(cmd *cobra.Command, e *env, purge bool) error {
	gdb, err := e.database()
	if err != nil {
		return err
	}
	comments := services.NewCommentService(gdb, services.WithLogger(e.logger))
	out := cmd.OutOrStdout()

	orphans, err := comments.FindOrphans(cmd.Context())
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		fmt.Fprintln(out, "no orphaned comments")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMMENT\tPOST\tREASON\tCREATED")
	for _, o := range orphans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Comment.ID, o.Comment.PostID, o.Reason, o.Comment.CreatedAt.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !purge {
		fmt.Fprintf(out, "%d orphaned comments; rerun with --purge to remove them\n", len(orphans))
		return nil
	}
	removed, err := comments.PurgeOrphans(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "removed %d comments\n", removed)
	return nil
}
