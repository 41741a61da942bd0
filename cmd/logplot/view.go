package main

import "github.com/spf13/cobra"

func newViewCommand(opts *rootOptions) *cobra.Command {
	var tui bool
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse a log in the overview/detail viewer",
		Long: `view shows the whole log on top with the current window shaded and the window
itself below. Drag the position slider or use the arrow keys to move it.
With --tui the same view is drawn in the terminal.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := opts.loadDataset(cmd)
			if err != nil {
				return err
			}
			if tui {
				return runTUI(data)
			}
			return runViewer(data)
		},
	}
	cmd.Flags().BoolVar(&tui, "tui", false, "Use the terminal viewer instead of a desktop window")
	return cmd
}
