package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petasbytes/dungeon-tools/internal/config"
	"github.com/petasbytes/dungeon-tools/internal/game"
	"github.com/petasbytes/dungeon-tools/internal/logging"
	"github.com/petasbytes/dungeon-tools/memory"
	"github.com/petasbytes/dungeon-tools/tools"
)

// app is the state shared by every subcommand.
type app struct {
	envFile  string
	logLevel string

	cfg     *config.Config
	log     *zap.Logger
	session *memory.Session
	ledger  *memory.Ledger
	reg     *tools.Registry
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "agent",
		Short:         "Dungeon agent with model-callable tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "optional dotenv file with AGT_* settings")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (default from AGT_LOG_LEVEL)")

	root.AddCommand(newChatCmd(a), newToolsCmd(a), newCallCmd(a))
	return root
}

// setup loads config and the session, and builds the registry with the
// session's item ledger as the tool context.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.logLevel == "" {
		a.logLevel = cfg.LogLevel
	}
	if a.log, err = logging.New(a.logLevel); err != nil {
		return err
	}

	a.session, err = memory.LoadSession(cfg.SessionPath())
	if err != nil {
		a.log.Warn("failed to load session; starting fresh", zap.String("path", cfg.SessionPath()), zap.Error(err))
		a.session = &memory.Session{}
	}
	a.ledger = memory.NewLedger(a.session.Items)

	a.reg = tools.Default()
	a.reg.SetContext(&game.Context{Items: a.ledger})
	return nil
}

// saveSession writes the transcript and ledger back to the session file.
func (a *app) saveSession() {
	a.session.Items = a.ledger.Items()
	if err := memory.SaveSession(a.cfg.SessionPath(), a.session); err != nil {
		a.log.Warn("failed to save session", zap.String("path", a.cfg.SessionPath()), zap.Error(err))
	}
}
