package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cmdcenter/shell"
)

func main() {
	if err := buildRoot().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootFlags decouples cobra from the run logic for testing.
type rootFlags struct {
	ConfigPath string
	LogLevel   string
}

func buildRoot() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "cmdcenter",
		Short:         "Command Center shell: runs the app and supervises its backend service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runShell(flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to shell config file (TOML)")
	root.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
	return root
}

// runShell is the headless host adapter: it delivers the startup event
// immediately and maps SIGINT/SIGTERM to the window-destroyed event. A
// window framework embedding the shell package wires the same two calls to
// its own lifecycle callbacks instead.
func runShell(flags *rootFlags) error {
	cfg, err := shell.LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	log := shell.NewDiagnosticLogger(cfg, os.Stderr)
	slog.SetDefault(log)

	sup := shell.NewWithConfig(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = sup.HandleStartup(ctx)

	st := sup.Status()
	log.Info("shell ready", "state", string(st.State), "pid", st.PID)

	<-ctx.Done()
	stop()

	log.Info("window closed, shutting down")
	sup.HandleWindowDestroyed(context.Background())
	return nil
}
