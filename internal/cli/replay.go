package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/tape"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
}

// ReplaySummary holds the overall replay verification result.
type ReplaySummary struct {
	Sessions []*tape.ReplayResult `json:"sessions"`
	Total    int                  `json:"total"`
	AllOK    bool                 `json:"all_ok"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded sessions and verify determinism",
		Long: `Re-apply every recorded action on a fresh calculator and verify each
entry two ways: its content hash must match the stored row (integrity), and
the recomputed snapshot must match the recorded one (determinism).

Exit codes:
  0 - All sessions verified
  1 - Divergence detected (tampered or non-deterministic tape)
  2 - Command error (database not found, unknown session)

Examples:
  tally replay --db ./tally.db
  tally replay --db ./tally.db --session demo
  tally replay --db ./tally.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplayCmd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite tape database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "verify a specific session only")

	return cmd
}

func runReplayCmd(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := tape.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open tape database", err)
	}
	defer st.Close()

	var results []*tape.ReplayResult
	if opts.Session != "" {
		result, err := tape.ReplaySession(ctx, st, opts.Session)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", opts.Session), err)
		}
		results = []*tape.ReplayResult{result}
	} else {
		results, err = tape.ReplayAll(ctx, st)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to replay sessions", err)
		}
	}

	summary := ReplaySummary{
		Sessions: results,
		Total:    len(results),
		AllOK:    true,
	}
	for _, r := range results {
		if !r.OK() {
			summary.AllOK = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, summary)
	}
	return outputReplayText(cmd, summary, opts.Verbose)
}

// outputReplayJSON outputs the replay summary as JSON.
func outputReplayJSON(cmd *cobra.Command, summary ReplaySummary) error {
	if summary.AllOK {
		if err := writeJSONOK(cmd.OutOrStdout(), summary); err != nil {
			return err
		}
		return nil
	}

	if err := writeJSONError(cmd.OutOrStdout(), "E_DIVERGENCE", "replay verification failed", summary); err != nil {
		return err
	}
	// Divergence = exit code 1
	return NewExitError(ExitFailure, "replay verification failed")
}

// outputReplayText outputs the replay summary as text.
func outputReplayText(cmd *cobra.Command, summary ReplaySummary, verbose bool) error {
	w := cmd.OutOrStdout()

	if summary.Total == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n\n", summary.Total)

	for _, r := range summary.Sessions {
		status := "✓"
		if !r.OK() {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Session: %s (%d entries)\n", status, r.SessionID, r.Entries)

		if verbose || !r.OK() {
			fmt.Fprintf(w, "  Integrity: %v\n", r.IntegrityOK)
			fmt.Fprintf(w, "  Determinism: %v\n", r.DeterminismOK)
		}
		for _, d := range r.Divergences {
			fmt.Fprintf(w, "  seq %d: %s = %q, recorded %q\n", d.Seq, d.Field, d.Got, d.Want)
		}
	}

	fmt.Fprintln(w)
	if summary.AllOK {
		fmt.Fprintln(w, "✓ All sessions verified")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay verification failed")
	// Divergence = exit code 1
	return NewExitError(ExitFailure, "replay verification failed")
}
