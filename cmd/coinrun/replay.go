package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-coinrun/internal/rollout"
	"github.com/vovakirdan/tui-coinrun/internal/storage"
)

var flagReplaySave bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>...",
	Short: "Re-simulate replay files and verify their endings",
	Long: `Load each replay file written by 'coinrun rollout --replay-dir',
re-run its actions from the recorded seed and config, and check that the
episode ends with the same outcome, tick count, reward and state hash.

Examples:
  coinrun replay ./replays/coinrun_7.yaml
  coinrun replay ./replays/*.yaml --save`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagReplaySave, "save", false, "Store verified episodes in the database")
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var store *storage.Store
	if flagReplaySave {
		var err error
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	failed := 0
	for _, path := range args {
		r, err := rollout.LoadReplay(path)
		if err != nil {
			return err
		}
		res, err := rollout.Verify(ctx, r)
		if err != nil {
			failed++
			logger.Error("replay failed", "file", path, "error", err)
			fmt.Printf("FAIL  %s: %v\n", path, err)
			continue
		}
		fmt.Printf("ok    %s: %s after %d ticks, reward %.0f\n", path, res.Outcome, res.Ticks, res.Reward)

		if store != nil {
			if _, err := store.SaveEpisode(res.Episode(storage.SourceReplay)); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d replays did not reproduce", failed, len(args))
	}
	return nil
}
