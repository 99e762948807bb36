package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-coinrun/internal/games/coinrun"
	"github.com/vovakirdan/tui-coinrun/internal/platform/tui"
	"github.com/vovakirdan/tui-coinrun/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a level picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a level.
Quitting a level (Q) returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select level
  Tab          - Episode board
  Q            - Quit

Examples:
  coinrun menu
  coinrun menu --fps 30
  coinrun menu --db ./episodes.db`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = config world.tick_rate)")
}

func runMenu(_ *cobra.Command, _ []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open episode database", "error", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	ilog := interactiveLogger()
	coinrun.SetLogger(ilog)

	cfg := terminalConfig()

	for {
		menuResult, err := tui.RunMenu(reg, store, cfg)
		if err != nil {
			return err
		}

		// Keep any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsEpisodes {
			goBack, epErr := tui.RunEpisodes(reg, store, cfg.ScreenW, cfg.ScreenH)
			if epErr != nil {
				return epErr
			}
			if goBack {
				continue
			}
			return nil
		}

		if menuResult.GameID == "" {
			return nil
		}

		game, err := reg.Create(menuResult.GameID)
		if err != nil {
			ilog.Error("cannot create level", "game", menuResult.GameID, "error", err)
			continue
		}

		cfg.Seed = time.Now().UnixNano()
		if err := tui.Run(game, store, ilog, cfg); err != nil {
			return err
		}
	}
}
