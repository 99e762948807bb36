package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-coinrun/internal/core"
	"github.com/vovakirdan/tui-coinrun/internal/games/coinrun"
	"github.com/vovakirdan/tui-coinrun/internal/platform/tui"
	"github.com/vovakirdan/tui-coinrun/internal/storage"
)

var (
	flagFPS  int
	flagSeed int64
)

var playCmd = &cobra.Command{
	Use:   "play <level>",
	Short: "Play a level",
	Long: `Start playing the specified level variant.

Controls:
  A/D, Left/Right  - Run
  Space/W/Up       - Jump
  S/Down           - Drop through crates
  P/Esc            - Pause
  R                - Restart (after the episode ends)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Difficulty 1 with the easy distribution
  normal - Difficulty 2
  hard   - Difficulty 3
  fixed  - Keep the config's difficulty

Examples:
  coinrun play coinrun
  coinrun play coinrun_lava --difficulty hard
  coinrun play coinrun_saws --seed 42
  coinrun play coinrun --config ./my-coinrun.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = config world.tick_rate)")
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Level seed (0 = random based on time)")
}

// terminalConfig builds a runtime config sized to the current terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: tickRate(flagFPS),
		Seed:     flagSeed,
	}
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]

	reg, err := newRegistry()
	if err != nil {
		return err
	}
	if !reg.Exists(gameID) {
		return fmt.Errorf("unknown level %q, run 'coinrun list' to see available levels", gameID)
	}

	// Fail before entering the alternate screen on a broken config.
	if v, ok := coinrun.LookupVariant(gameID); ok {
		if _, err := coinrun.LoadConfig(v); err != nil {
			return err
		}
	}

	game, err := reg.Create(gameID)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open episode database", "error", err)
		// Continue without storage - the level still works
		store = nil
	}

	ilog := interactiveLogger()
	coinrun.SetLogger(ilog)

	runErr := tui.Run(game, store, ilog, terminalConfig())

	if store != nil {
		store.Close()
	}
	return runErr
}
