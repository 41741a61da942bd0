package main

import (
	"fmt"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/GKD-RM-Lab/logplot/src/render"
)

type nopStop struct{}

func (nopStop) Stop() {}

func newRenderCommand(opts *rootOptions) *cobra.Command {
	var profileDir string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the static figure of a log to a PNG file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prof := startProfile(profileDir)
			defer prof.Stop()

			data, err := opts.loadDataset(cmd)
			if err != nil {
				return err
			}
			r := render.NewRenderer(render.Options{
				OutputDir:    data.cfg.OutputDir,
				DPI:          data.cfg.DPI,
				WidthInches:  data.cfg.WidthInches,
				HeightInches: data.cfg.HeightInches,
				WindowSize:   data.cfg.WindowSize,
				LogPath:      data.logPath,
			})
			path, err := r.Render(data.set, data.variant)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&profileDir, "profile", "", "Write a CPU profile to this directory")
	return cmd
}

func startProfile(dir string) interface{ Stop() } {
	if dir == "" {
		return nopStop{}
	}
	return profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.NoShutdownHook, profile.Quiet)
}
