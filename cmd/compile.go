package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/example/fogmap/internal/modes"
)

var compileCmd = &cobra.Command{
	Use:   "compile <book> [section]",
	Short: "Compile practice instances for a book or one section",
	Args:  cobra.RangeArgs(1, 2),
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

		seed, _ := cmd.Flags().GetInt64("seed")
		asJSON, _ := cmd.Flags().GetBool("json")
		ctx := cmd.Context()

		var (
			instances []modes.Instance
			reports   []*modes.Report
		)
		if len(args) == 2 {
			ins, report, err := orch.Instances(ctx, cfg.LearnerID, args[0], args[1], seed)
			if err != nil {
				return err
			}
			instances, reports = ins, []*modes.Report{report}
		} else {
			workers, _ := cmd.Flags().GetInt("workers")
			if workers <= 0 {
				workers = runtime.NumCPU()
			}
			result, err := orch.CompileBook(ctx, cfg.LearnerID, args[0], seed, workers)
			if err != nil {
				return err
			}
			instances, reports = result.Instances, result.Reports
		}

		for _, report := range reports {
			for _, gapErr := range report.GapErrors() {
				fmt.Fprintln(os.Stderr, gapErr)
			}
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(instances)
		}

		for _, in := range instances {
			fmt.Fprintf(cmd.OutOrStdout(), "%-60s %-16s %-8s %3d XP\n",
				in.ID, in.EngineKind, in.Difficulty, in.Rewards.XP)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d instances\n", len(instances))
		return nil
	},
}

func init() {
	compileCmd.Flags().Int64("seed", 0, "Deterministic shuffle seed")
	compileCmd.Flags().Int("workers", 0, "Section compile workers (0 = number of CPUs)")
	compileCmd.Flags().Bool("json", false, "Emit full instances as JSON")
}
