package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// KeysOptions holds flags for the keys command.
type KeysOptions struct {
	*RootOptions
	Keymap string
}

// KeyBinding is one key-to-action binding for output.
type KeyBinding struct {
	Key    string `json:"key"`
	Action string `json:"action"`
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeysOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Print the active key bindings",
		Long: `Print every key the calculator accepts and the action it resolves to,
including any overlay from a CUE keymap profile.

Examples:
  tally keys
  tally keys --keymap vim.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Keymap, "keymap", "", "CUE keymap profile to overlay")

	return cmd
}

func runKeys(opts *KeysOptions, cmd *cobra.Command) error {
	km, err := loadKeymap(opts.Keymap)
	if err != nil {
		return err
	}

	bindings := km.Bindings()
	keys := km.Keys()

	list := make([]KeyBinding, 0, len(keys))
	for _, k := range keys {
		list = append(list, KeyBinding{Key: k, Action: bindings[k].String()})
	}

	if opts.Format == "json" {
		return writeJSONOK(cmd.OutOrStdout(), list)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tACTION")
	for _, b := range list {
		fmt.Fprintf(w, "%s\t%s\n", b.Key, b.Action)
	}
	return w.Flush()
}
