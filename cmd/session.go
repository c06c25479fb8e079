package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start a practice session and show the review queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		orch, err := newOrchestrator(cfg, s)
		if err != nil {
			return err
		}

		sess, err := orch.Start(cmd.Context(), cfg.LearnerID, time.Now().UTC())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "session %s for %s\n", sess.ID, sess.LearnerID)
		if len(sess.Reclaimed) > 0 {
			fmt.Fprintf(out, "fog advanced on %d tile(s): %v\n", len(sess.Reclaimed), sess.Reclaimed)
		}
		if len(sess.Queue) == 0 {
			fmt.Fprintln(out, "nothing awaits review")
			return nil
		}
		fmt.Fprintf(out, "%d tile(s) await review:\n", len(sess.Queue))
		for _, entry := range sess.Queue {
			fmt.Fprintf(out, "  %-40s %-10s %.1f days overdue\n",
				entry.TileID, entry.State, entry.OverdueDays)
		}
		return nil
	},
}
