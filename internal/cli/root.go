// Package cli is the terminal presentation of VibeFit: the same workout
// service as the web pages, with the session kept in a local SQLite file.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/2beens/vibefit/internal/gymlog"
	"github.com/2beens/vibefit/internal/session"

	"github.com/spf13/cobra"
)

const defaultSessionID = "terminal"

var version = "dev" // set via ldflags at build time

type Options struct {
	Env        string
	ConfigPath string
	SessionID  string
	Verbose    bool
}

// Env is what every command runs against.
type Env struct {
	Service  *gymlog.Service
	Sessions *session.Manager
	Close    func() error
}

type EnvFactory func(ctx context.Context, opts Options) (*Env, error)

type app struct {
	opts    Options
	factory EnvFactory
	env     *Env
}

// NewRootCommand builds the command tree. Every subcommand opens its env
// through factory and closes it when done.
func NewRootCommand(factory EnvFactory) *cobra.Command {
	a := &app{factory: factory}

	rootCmd := &cobra.Command{
		Use:   "vibefit",
		Short: "Log gym sets, keep rest time and talk to the AI coach",
		Long: `vibefit logs working sets to the workout log, starts the rest timer
and forwards each set to the AI coach. The session lives in a local
SQLite file, so one workout spans many invocations.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&a.opts.Env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&a.opts.ConfigPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&a.opts.SessionID, "session", defaultSessionID, "workout session id")
	rootCmd.PersistentFlags().BoolVar(&a.opts.Verbose, "verbose", false, "log debug output to stderr")

	rootCmd.AddCommand(
		newLogCmd(a),
		newChatCmd(a),
		newRetryCmd(a),
		newStatusCmd(a),
		newExportCmd(a),
		newClearCmd(a),
		newResetCmd(a),
	)

	return rootCmd
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCommand(OpenEnv).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runFunc func(cmd *cobra.Command, args []string) error

// open wraps fn so the env is open while it runs.
func (a *app) open(fn runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) (err error) {
		env, err := a.factory(cmd.Context(), a.opts)
		if err != nil {
			return err
		}
		a.env = env
		defer func() {
			if env.Close != nil {
				if closeErr := env.Close(); closeErr != nil && err == nil {
					err = closeErr
				}
			}
			a.env = nil
		}()
		return fn(cmd, args)
	}
}

// withState loads the session, runs fn and saves the session, also when fn fails.
func (a *app) withState(ctx context.Context, fn func(state *session.State) error) error {
	state, err := a.env.Sessions.GetOrCreateWithID(ctx, a.opts.SessionID)
	if err != nil {
		return err
	}

	fnErr := fn(state)
	if err := a.env.Sessions.Save(ctx, state); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return fnErr
}
