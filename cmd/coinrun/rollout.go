package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-coinrun/internal/config"
	"github.com/vovakirdan/tui-coinrun/internal/games/coinrun"
	"github.com/vovakirdan/tui-coinrun/internal/rollout"
	"github.com/vovakirdan/tui-coinrun/internal/storage"
)

var (
	flagRolloutGame string
	flagPolicy      string
	flagEpisodes    int
	flagFirstSeed   uint64
	flagWorkers     int
	flagSave        bool
	flagReplayDir   string
	flagVerbose     bool
)

var rolloutCmd = &cobra.Command{
	Use:   "rollout",
	Short: "Run a batch of episodes with a scripted policy",
	Long: `Play many independent episodes in parallel, one per seed, and print
a summary. Seeds run from --first-seed upwards, so a batch is reproducible.

Policies:
  ` + strings.Join(rollout.PolicyNames(), ", ") + `

Examples:
  coinrun rollout --episodes 200
  coinrun rollout --game coinrun_lava --policy random --workers 4
  coinrun rollout --game coinrun_saws --save --replay-dir ./replays`,
	Args: cobra.NoArgs,
	RunE: runRollout,
}

func init() {
	rolloutCmd.Flags().StringVar(&flagRolloutGame, "game", "coinrun", "Level variant")
	rolloutCmd.Flags().StringVar(&flagPolicy, "policy", rollout.PolicyRunner, "Action policy")
	rolloutCmd.Flags().IntVar(&flagEpisodes, "episodes", 100, "Number of episodes")
	rolloutCmd.Flags().Uint64Var(&flagFirstSeed, "first-seed", 0, "Seed of the first episode")
	rolloutCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel episodes (0 = GOMAXPROCS)")
	rolloutCmd.Flags().BoolVar(&flagSave, "save", false, "Store every episode in the database")
	rolloutCmd.Flags().StringVar(&flagReplayDir, "replay-dir", "", "Write a replay file per episode into this directory")
	rolloutCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print every episode")
}

func runRollout(cmd *cobra.Command, _ []string) error {
	v, ok := coinrun.LookupVariant(flagRolloutGame)
	if !ok {
		return fmt.Errorf("unknown level %q, run 'coinrun list' to see available levels", flagRolloutGame)
	}
	cfg, err := coinrun.LoadConfig(v)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := rollout.Options{
		Config:    cfg,
		GameID:    v.ID,
		Policy:    flagPolicy,
		Episodes:  flagEpisodes,
		FirstSeed: flagFirstSeed,
		Workers:   flagWorkers,
		Record:    flagReplayDir != "",
		Logger:    logger,
	}
	if flagSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Store = store
	}

	results, sum, err := rollout.Run(ctx, opts)
	if err != nil {
		return err
	}

	if flagReplayDir != "" {
		if err := writeReplays(flagReplayDir, cfg, results); err != nil {
			return err
		}
		logger.Info("replays written", "dir", flagReplayDir, "count", len(results))
	}

	if flagVerbose {
		fmt.Printf("  %-10s  %-8s  %-6s  %-6s  %s\n", "Seed", "Outcome", "Ticks", "Reward", "Cause")
		for _, r := range results {
			fmt.Printf("  %-10d  %-8s  %-6d  %-6.0f  %s\n", r.Seed, r.Outcome, r.Ticks, r.Reward, r.Cause)
		}
		fmt.Println()
	}

	fmt.Printf("%s with %s policy: %d episodes\n", v.Title, flagPolicy, sum.Episodes)
	fmt.Printf("  completed  %d (%.1f%%)\n", sum.Completed, 100*sum.CompletionRate())
	fmt.Printf("  deaths     %d\n", sum.Deaths)
	fmt.Printf("  timeouts   %d\n", sum.Timeouts)
	fmt.Printf("  avg ticks  %.1f\n", sum.AvgTicks)
	fmt.Printf("  avg reward %.2f\n", sum.AvgReward)
	return nil
}

// writeReplays stores one replay file per result, named after level and seed.
func writeReplays(dir string, cfg config.CoinrunConfig, results []rollout.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create replay directory: %w", err)
	}
	for _, r := range results {
		path := filepath.Join(dir, fmt.Sprintf("%s_%d.yaml", r.GameID, r.Seed))
		if err := rollout.SaveReplay(path, rollout.NewReplay(cfg, r)); err != nil {
			return err
		}
	}
	return nil
}
