package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fogmap/internal/config"
	"github.com/example/fogmap/internal/content"
	"github.com/example/fogmap/internal/fog"
	"github.com/example/fogmap/internal/modes"
	"github.com/example/fogmap/internal/session"
	"github.com/example/fogmap/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "fogmap",
	Short: "Spaced-repetition practice compiler",
	Long: "Fogmap compiles textbook sections into playable practice modes and\n" +
		"tracks which knowledge tiles have fogged over and need review.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database path or DSN (overrides FOGMAP_DB env var)")
	rootCmd.PersistentFlags().String("content", "", "Content directory (overrides FOGMAP_CONTENT_DIR env var)")
	rootCmd.PersistentFlags().String("learner", "", "Learner id (overrides FOGMAP_LEARNER env var)")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves effective settings: flag, then environment, then
// defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("content"); p != "" {
		cfg.ContentDir = p
	}
	if l, _ := cmd.Flags().GetString("learner"); l != "" {
		cfg.LearnerID = l
	}
	return cfg, nil
}

// openStore connects per the resolved config. For SQLite an unset path
// falls back to the XDG default location.
func openStore(cfg config.Config) (*store.Store, error) {
	dsn := cfg.DBPath
	if cfg.DBDriver == store.DriverSQLite {
		if dsn == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, err
			}
			dsn = p
		} else if err := store.EnsureDir(dsn); err != nil {
			return nil, err
		}
	} else if dsn == "" {
		return nil, fmt.Errorf("driver %s needs FOGMAP_DB or --db", cfg.DBDriver)
	}
	return store.Open(cfg.DBDriver, dsn)
}

func newOrchestrator(cfg config.Config, s *store.Store) (*session.Orchestrator, error) {
	src, err := content.NewStore(cfg.ContentDir)
	if err != nil {
		return nil, err
	}
	sched := fog.NewScheduler(s.MasteryRepo(), s.Events(), fog.DefaultConfig())
	return session.New(sched, src, s.Events(), modes.DefaultConfig()), nil
}
