package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-coinrun/internal/storage"
)

var (
	flagRecent bool
	flagLimit  int
	flagClear  bool
)

var episodesCmd = &cobra.Command{
	Use:   "episodes [level]",
	Short: "Show recorded episodes",
	Long: `Display statistics and the best (or most recent) episodes of a level.
Without a level, shows statistics for every level that has been played.

Best episodes are completed runs first, fewest ticks first.

Examples:
  coinrun episodes
  coinrun episodes coinrun_lava
  coinrun episodes coinrun --recent --limit 20
  coinrun episodes coinrun --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEpisodes,
}

func init() {
	episodesCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show most recent instead of best episodes")
	episodesCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of episodes to show")
	episodesCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the level's recorded episodes")
}

func runEpisodes(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		if flagClear {
			return fmt.Errorf("--clear needs a level")
		}
		return printAllStats(store)
	}

	gameID := args[0]
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	if !reg.Exists(gameID) {
		return fmt.Errorf("unknown level %q, run 'coinrun list' to see available levels", gameID)
	}

	if flagClear {
		if err := store.ClearEpisodes(gameID); err != nil {
			return err
		}
		logger.Info("episodes cleared", "game", gameID)
		return nil
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}

	var episodes []storage.Episode
	if flagRecent {
		episodes, err = store.RecentEpisodes(gameID, flagLimit)
	} else {
		episodes, err = store.TopEpisodes(gameID, flagLimit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Episodes - %s\n", gameID)
	fmt.Println()

	if stats.Episodes == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'coinrun play %s' or run 'coinrun rollout --game %s --save'.\n", gameID, gameID)
		return nil
	}

	fmt.Printf("  %d episodes, %d cleared (%.1f%%), avg %.1f ticks\n",
		stats.Episodes, stats.Completed, 100*stats.CompletionRate(), stats.AvgTicks)
	if stats.BestTicks > 0 {
		fmt.Printf("  best run %d ticks\n", stats.BestTicks)
	}
	fmt.Println()

	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-10s  %-8s  %-8s  %s\n",
		"#", "Outcome", "Ticks", "Reward", "Seed", "Cause", "Source", "Date")
	for i, e := range episodes {
		fmt.Printf("  %-4d  %-8s  %-6d  %-6.0f  %-10d  %-8s  %-8s  %s\n",
			i+1, e.Outcome, e.Ticks, e.Reward, e.Seed, e.Cause, e.Source,
			e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func printAllStats(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No episodes recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-18s  %-8s  %-8s  %-6s  %-9s  %s\n", "Level", "Episodes", "Cleared", "Best", "Avg ticks", "Last played")
	for _, id := range ids {
		s := all[id]
		best := "-"
		if s.BestTicks > 0 {
			best = fmt.Sprint(s.BestTicks)
		}
		fmt.Printf("  %-18s  %-8d  %-8d  %-6s  %-9.1f  %s\n",
			id, s.Episodes, s.Completed, best, s.AvgTicks, s.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
