// coinrun is a procedurally generated platformer played in the terminal,
// plus batch rollout tooling for its levels.
//
// Usage:
//
//	coinrun list                 - List level variants
//	coinrun play <level>         - Play a level
//	coinrun menu                 - Pick levels interactively
//	coinrun rollout              - Run a batch of episodes with a scripted policy
//	coinrun replay <file>        - Re-simulate and verify a replay file
//	coinrun episodes [level]     - Show recorded episodes
//	coinrun serve                - Start SSH server for remote play
//	coinrun config [level]       - Print the effective level config
//	coinrun preview [level]      - Print the opening view of a level
//
// Global flags:
//
//	--config <path>      - Level config YAML
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
//	--db <path>          - Episode database (default: ~/.coinrun/episodes.db)
//	--log-level <level>  - debug, info, warn, error
//	--log-file <path>    - Write logs to a file instead of stderr
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-coinrun/internal/config"
	"github.com/vovakirdan/tui-coinrun/internal/core"
	"github.com/vovakirdan/tui-coinrun/internal/games/coinrun"
	"github.com/vovakirdan/tui-coinrun/internal/registry"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagDBPath     string
	flagLogLevel   string
	flagLogFile    string

	logger  *log.Logger
	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "coinrun",
	Short: "CoinRun - a procedural platformer in your terminal",
	Long: `CoinRun generates platformer levels from a seed: run right, jump over
pits, dodge saws and enemies, and reach the coin.

Available commands:
  list      - Show all level variants
  play      - Play a level directly
  menu      - Interactive level picker
  rollout   - Run many episodes with a scripted policy
  replay    - Verify a recorded replay
  episodes  - Show recorded episodes
  serve     - Start SSH server for remote play
  config    - Print or initialise the level config
  preview   - Print the opening view of a level

Examples:
  coinrun list
  coinrun play coinrun_lava --difficulty hard
  coinrun rollout --game coinrun_saws --episodes 500 --save
  coinrun serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom level config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.coinrun/episodes.db", "Path to episode database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(rolloutCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(previewCmd)
}

// setup builds the logger and hands the global flags to the level package.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q", flagLogLevel)
	}
	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if flagLogFile != "" {
		logFile, err = os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		w = logFile
	}
	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "coinrun",
		Level:           level,
	})

	coinrun.SetConfigPath(flagConfig)
	coinrun.SetDifficultyPreset(flagDifficulty)
	return nil
}

// interactiveLogger is the logger for code running under a full-screen TUI,
// which must never write to the terminal.
func interactiveLogger() *log.Logger {
	if logFile != nil {
		return logger
	}
	return log.New(io.Discard)
}

// newRegistry returns the registry of every playable level variant.
func newRegistry() (*registry.Registry, error) {
	reg := registry.New()
	if err := coinrun.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// tickRate resolves the interactive tick rate from the flag or the config.
func tickRate(flag int) int {
	if flag > 0 {
		return flag
	}
	cfg, err := config.LoadCoinrun(flagConfig)
	if err != nil || cfg.World.TickRate <= 0 {
		return core.DefaultConfig().TickRate
	}
	return cfg.World.TickRate
}
