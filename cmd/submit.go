package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/fogmap/internal/fog"
)

var submitCmd = &cobra.Command{
	Use:   "submit <tile-id> <accuracy>",
	Short: "Record a completed practice outcome for a tile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		accuracy, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parse accuracy %q: %w", args[1], err)
		}
		elapsed, _ := cmd.Flags().GetFloat64("elapsed")

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

		rec, err := orch.Submit(cmd.Context(), cfg.LearnerID, fog.Outcome{
			TileID:         args[0],
			Accuracy:       accuracy,
			ElapsedSeconds: elapsed,
		}, time.Now().UTC())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"%s: %s, next review in %d day(s), ease %.2f, streak %d\n",
			rec.TileID, rec.State, rec.IntervalDays, rec.EaseFactor, rec.ConsecutiveCorrect)
		return nil
	},
}

func init() {
	submitCmd.Flags().Float64("elapsed", 0, "Seconds spent on the practice")
}
