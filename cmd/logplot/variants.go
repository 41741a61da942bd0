package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newVariantsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the known line layouts",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return usageError{err}
			}
			out := cmd.OutOrStdout()
			for _, v := range reg.All() {
				_, _ = fmt.Fprintf(out, "%s\n", titleStyle.Render(v.Name))
				_, _ = fmt.Fprintf(out, "  fields:  %s\n", strings.Join(v.FieldNames(), ", "))
				_, _ = fmt.Fprintf(out, "  pattern: %s\n", v.Pattern.String())
				if v.DefaultLog != "" {
					_, _ = fmt.Fprintf(out, "  log:     %s\n", v.DefaultLog)
				}
				if v.Example != "" {
					_, _ = fmt.Fprintf(out, "  example: %s\n", v.Example)
				}
				_, _ = fmt.Fprintf(out, "  output:  %s_plot_<timestamp>.png\n", v.Prefix)
			}
			return nil
		},
	}
}
