package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamify/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gamify SSH server",
	Long: `Start an SSH server that allows users to connect and play designs.

Each SSH connection gets its own session with the design library.
Plays are recorded per server (all users share the same history).

Host key handling:
  - The key at ssh.host_key_path (or --host-key) is used
  - It is generated on first start if missing

Examples:
  gamify serve                           # Listen on the configured address
  gamify serve --ssh :2222               # Listen on port 2222
  gamify serve --host-key ./my_host_key  # Use specific host key
  gamify serve --db ./gamify.db          # Use specific database

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	sshCfg := cfg.SSH
	if cmd.Flags().Changed("ssh") {
		sshCfg.Addr = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		sshCfg.HostKeyPath = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		sshCfg.IdleTimeout = flagIdleTimeout
	}

	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}
	if _, err := catalog(store); err != nil {
		return err
	}

	server, err := tui.NewSSHServer(sshCfg, store, tui.Options{
		ShowHelp:    cfg.Play.ShowHelp,
		RecordPlays: cfg.Play.RecordPlays,
		Logger:      logger.WithPrefix("gamify-ssh"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Starting gamify SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx)
}
