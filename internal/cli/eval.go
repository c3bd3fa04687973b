package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Keymap  string // optional CUE binding profile
	Tape    string // optional tape database path
	Session string // optional session id (with --tape)
}

// EvalResult holds the final snapshot of an evaluation.
type EvalResult struct {
	Display   string `json:"display"`
	Secondary string `json:"secondary"`
	IsError   bool   `json:"is_error"`
	SessionID string `json:"session_id,omitempty"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <keys...>",
		Short: "Evaluate a key script and print the final display",
		Long: `Evaluate a sequence of key tokens against a fresh calculator.

Tokens are applied left to right. A numeral token like 12.5 expands to its
digit and decimal presses. With --tape the run is recorded; --session names
the session (resuming it if it already exists), otherwise a fresh UUIDv7
session is started.

Examples:
  tally eval 2 + 3 '*' 4 =
  tally eval 200 + 10 % = --format json
  tally eval 1 / 0 = --tape ./tally.db --session demo`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Keymap, "keymap", "", "CUE keymap profile to overlay")
	cmd.Flags().StringVar(&opts.Tape, "tape", "", "record the run to this SQLite database")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id (requires --tape)")

	return cmd
}

func runEval(opts *EvalOptions, args []string, cmd *cobra.Command) error {
	if opts.Session != "" && opts.Tape == "" {
		return NewExitError(ExitCommandError, "--session requires --tape")
	}

	km, err := loadKeymap(opts.Keymap)
	if err != nil {
		return err
	}

	ctx := context.Background()
	eng := engine.New()
	apply := func(a engine.Action) (engine.Snapshot, error) {
		return eng.Apply(a), nil
	}

	var sessionID string
	if opts.Tape != "" {
		rec, st, err := openRecorder(ctx, opts.Tape, opts.Session, eng)
		if err != nil {
			return err
		}
		defer st.Close()
		sessionID = rec.SessionID()
		apply = func(a engine.Action) (engine.Snapshot, error) {
			return rec.Apply(ctx, a)
		}
	}

	_, last, err := runScript(args, km, apply)
	if err != nil {
		return err
	}

	if sessionID != "" {
		slog.Debug("recorded evaluation", "session_id", sessionID, "keys", len(args))
	}

	if opts.Format == "json" {
		return writeJSONOK(cmd.OutOrStdout(), EvalResult{
			Display:   last.Display,
			Secondary: last.SecondaryLine,
			IsError:   last.IsError,
			SessionID: sessionID,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), last.Display)
	return nil
}
