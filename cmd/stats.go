package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fogmap/internal/fog"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
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
		ctx := cmd.Context()

		recs, err := s.MasteryRepo().List(ctx, cfg.LearnerID)
		if err != nil {
			return err
		}
		byState := map[fog.State]int{}
		for _, rec := range recs {
			byState[rec.State]++
		}

		st, err := s.Events().Stats(ctx, cfg.LearnerID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "learner %s\n", cfg.LearnerID)
		fmt.Fprintf(out, "tiles: %d clear, %d fogged, %d reclaimed\n",
			byState[fog.StateClear], byState[fog.StateFogged], byState[fog.StateReclaimed])
		fmt.Fprintf(out, "reviews: %d (%d excellent, %d good, %d poor)\n",
			st.Reviews,
			st.ReviewsByGrade[fog.GradeExcellent],
			st.ReviewsByGrade[fog.GradeGood],
			st.ReviewsByGrade[fog.GradePoor])
		if st.Reviews > 0 {
			fmt.Fprintf(out, "average accuracy: %.0f%%\n", st.AverageAccuracy*100)
		}
		fmt.Fprintf(out, "fog transitions: %d, content gaps: %d\n",
			st.FogTransitions, st.CompileGaps)
		return nil
	},
}
