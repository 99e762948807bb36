package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-coinrun/internal/config"
	"github.com/vovakirdan/tui-coinrun/internal/games/coinrun"
)

var (
	flagConfigInit  bool
	flagConfigForce bool
)

var configCmd = &cobra.Command{
	Use:   "config [level]",
	Short: "Show the effective level config",
	Long: `Prints the configuration a level is built from, after the --difficulty
preset and the level variant are applied.

With --init the built-in defaults are written to ~/.coinrun/configs/coinrun.yaml,
which is picked up by every later run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigInit, "init", false, "Write the default config to the user config path")
	configCmd.Flags().BoolVar(&flagConfigForce, "force", false, "Overwrite an existing user config with --init")
}

func runConfig(_ *cobra.Command, args []string) error {
	if flagConfigInit {
		path := config.UserConfigPath()
		if path == "" {
			return errors.New("cannot locate home directory")
		}
		if _, err := os.Stat(path); err == nil && !flagConfigForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.SaveCoinrun(path, config.DefaultCoinrunConfig()); err != nil {
			return err
		}
		logger.Info("config written", "path", path)
		return nil
	}

	id := "coinrun"
	if len(args) == 1 {
		id = args[0]
	}
	v, ok := coinrun.LookupVariant(id)
	if !ok {
		return fmt.Errorf("unknown level %q (run 'coinrun list')", id)
	}
	cfg, err := coinrun.LoadConfig(v)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
