package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Keymap string
}

// TraceResult holds the per-step trace of an evaluation.
type TraceResult struct {
	Steps   []ScriptStep `json:"steps"`
	Display string       `json:"display"`
	IsError bool         `json:"is_error"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <keys...>",
		Short: "Evaluate a key script and print the per-step trace",
		Long: `Evaluate a key script and print one row per applied action: sequence
number, the key token, the resolved action, and the snapshot after it.

Examples:
  tally trace 5 + 3 = = =
  tally trace 8 / 0 = --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Keymap, "keymap", "", "CUE keymap profile to overlay")

	return cmd
}

func runTrace(opts *TraceOptions, args []string, cmd *cobra.Command) error {
	km, err := loadKeymap(opts.Keymap)
	if err != nil {
		return err
	}

	eng := engine.New()
	steps, last, err := runScript(args, km, func(a engine.Action) (engine.Snapshot, error) {
		return eng.Apply(a), nil
	})
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return writeJSONOK(cmd.OutOrStdout(), TraceResult{
			Steps:   steps,
			Display: last.Display,
			IsError: last.IsError,
		})
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tKEY\tACTION\tDISPLAY\tSECONDARY\tERROR")
	for _, step := range steps {
		errMark := ""
		if step.IsError {
			errMark = "!"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			step.Seq, step.Key, step.Action, step.Display, step.Secondary, errMark)
	}
	return w.Flush()
}
