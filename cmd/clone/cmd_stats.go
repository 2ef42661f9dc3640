// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"code.hybscloud.com/clone/internal/job"
	"code.hybscloud.com/clone/internal/logging"
)

// statsEntry is one input in the stats summary.
type statsEntry struct {
	Input      string `yaml:"input"`
	Format     string `yaml:"format"`
	Composites int    `yaml:"composites"`
	Shared     int    `yaml:"shared"`
	Primitives int    `yaml:"primitives"`
	Patterns   int    `yaml:"patterns"`
	Timestamps int    `yaml:"timestamps"`
	Depth      int    `yaml:"depth"`
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [files...]",
		Short: "Report what cloning each document involves",
		Long: `Decode and clone each input, then print a YAML summary of the
composites allocated, shared references resolved, primitives, patterns and
timestamps seen, and the deepest nesting reached.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := inputs(args)
			if err != nil {
				return err
			}
			return runStats(cmd, a, names)
		},
	}
}

func runStats(cmd *cobra.Command, a *app, names []string) error {
	results, runErr := a.runner(job.Options{NoOutput: true}).Run(cmd.Context(), names, job.ReadFile(cmd.InOrStdin()))

	entries := make([]statsEntry, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		a.logger.Info("clone stats",
			append([]zap.Field{zap.String("input", res.Name), zap.Stringer("format", res.From)},
				logging.Stats(res.Stats)...)...)
		st := res.Stats
		entries = append(entries, statsEntry{
			Input:      res.Name,
			Format:     res.From.String(),
			Composites: st.Composites,
			Shared:     st.Shared,
			Primitives: st.Primitives,
			Patterns:   st.Patterns,
			Timestamps: st.Timestamps,
			Depth:      st.Depth,
		})
	}

	if len(entries) > 0 {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	}
	return runErr
}
