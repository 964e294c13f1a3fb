package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mxtoaaf/internal/preflight"
	"mxtoaaf/internal/transcode"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show external program and directory status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			resolver := transcode.NewResolver(cfg.Transcode.BundleDir)
			statuses := preflight.CheckSystemDeps(cfg, resolver)

			var lines []string
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			lines = append(lines, dependencyLines(statuses, colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Paths", colorize)...)
			if ctx.configPath != "" {
				lines = append(lines, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			}
			lines = append(lines, renderStatusLine("History", statusInfo, cfg.Paths.HistoryDB, colorize))
			lines = append(lines, preflightLines(preflight.RunAll(cfg, "", ""), colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Conversion", colorize)...)
			lines = append(lines,
				renderStatusLine("Frame rate", statusInfo, fmt.Sprintf("%g fps", cfg.Convert.FrameRate), colorize),
				renderStatusLine("Embed audio", statusInfo, yesNo(cfg.Convert.Embed), colorize),
				renderStatusLine("PCM output", statusInfo, fmt.Sprintf("%d Hz, %d-bit, %d ch", cfg.Transcode.SampleRate, cfg.Transcode.BitDepth, cfg.Transcode.Channels), colorize),
			)

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}
