package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the learner's mastery records",
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

		learnerID := cfg.LearnerID
		if all, _ := cmd.Flags().GetBool("all"); all {
			learnerID = ""
		}
		n, err := s.MasteryRepo().Reset(cmd.Context(), learnerID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d tile record(s)\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Reset every learner, not just the configured one")
}
