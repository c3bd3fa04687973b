package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gosuri/uilive"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/keymap"
)

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	Keymap  string
	Tape    string
	Session string
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive calculator",
		Long: `Read key tokens line by line and apply them to a running calculator.

Each input line may hold several whitespace-separated tokens. When stdout
is a terminal the secondary and display lines are re-rendered in place;
otherwise each update prints sequentially. Type :q to quit.

Examples:
  tally repl
  tally repl --tape ./tally.db --session scratch`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Keymap, "keymap", "", "CUE keymap profile to overlay")
	cmd.Flags().StringVar(&opts.Tape, "tape", "", "record the session to this SQLite database")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id (requires --tape)")

	return cmd
}

// replRenderer draws the two calculator lines after each applied token.
type replRenderer interface {
	Render(snap engine.Snapshot)
	Close()
}

// liveRenderer redraws both lines in place on a terminal.
type liveRenderer struct {
	writer *uilive.Writer
}

func newLiveRenderer(out io.Writer) *liveRenderer {
	w := uilive.New()
	w.Out = out
	return &liveRenderer{writer: w}
}

func (r *liveRenderer) Render(snap engine.Snapshot) {
	fmt.Fprintf(r.writer, "  %s\n> %s\n", snap.SecondaryLine, snap.Display)
	r.writer.Flush()
}

func (r *liveRenderer) Close() {}

// plainRenderer prints one line per update for pipes and tests.
type plainRenderer struct {
	out io.Writer
}

func (r *plainRenderer) Render(snap engine.Snapshot) {
	if snap.SecondaryLine != "" {
		fmt.Fprintf(r.out, "%s  [%s]\n", snap.Display, snap.SecondaryLine)
		return
	}
	fmt.Fprintln(r.out, snap.Display)
}

func (r *plainRenderer) Close() {}

// newRenderer picks the live renderer only when the output is a real
// terminal.
func newRenderer(out io.Writer) replRenderer {
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return newLiveRenderer(out)
	}
	return &plainRenderer{out: out}
}

func runRepl(opts *ReplOptions, cmd *cobra.Command) error {
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

	if opts.Tape != "" {
		rec, st, err := openRecorder(ctx, opts.Tape, opts.Session, eng)
		if err != nil {
			return err
		}
		defer st.Close()
		fmt.Fprintf(cmd.ErrOrStderr(), "recording to session %s\n", rec.SessionID())
		apply = func(a engine.Action) (engine.Snapshot, error) {
			return rec.Apply(ctx, a)
		}
	}

	out := cmd.OutOrStdout()
	renderer := newRenderer(out)
	defer renderer.Close()

	renderer.Render(eng.Snapshot())

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == ":q" {
			return nil
		}
		if line == "" {
			continue
		}

		var last engine.Snapshot
		applied := false
		for _, tok := range strings.Fields(line) {
			actions, err := keymap.ExpandToken(tok, km)
			if err != nil {
				// An unknown key does not end the session.
				fmt.Fprintf(cmd.ErrOrStderr(), "unknown key %q\n", tok)
				continue
			}
			for _, a := range actions {
				snap, err := apply(a)
				if err != nil {
					return WrapExitError(ExitCommandError, fmt.Sprintf("failed to apply key %q", tok), err)
				}
				last = snap
				applied = true
			}
		}
		if applied {
			renderer.Render(last)
		}
	}
	return scanner.Err()
}
