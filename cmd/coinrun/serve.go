package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-coinrun/internal/games/coinrun"
	"github.com/vovakirdan/tui-coinrun/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CoinRun SSH server",
	Long: `Start an SSH server that allows users to connect and play levels.

Each SSH connection gets its own session with a level picker menu.
Episodes are stored per server (all users share the same board).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.coinrun/host_key

Examples:
  coinrun serve                           # Listen on :23234 with auto-generated key
  coinrun serve --ssh :2222               # Listen on port 2222
  coinrun serve --host-key ./my_host_key  # Use specific host key
  coinrun serve --db ./episodes.db        # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = config world.tick_rate)")
}

func runServe(_ *cobra.Command, _ []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	coinrun.SetLogger(logger)

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    tickRate(flagFPS),
	}

	server, err := tui.NewSSHServer(cfg, reg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Starting CoinRun SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
