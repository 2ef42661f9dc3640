// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"code.hybscloud.com/clone/codec"
	"code.hybscloud.com/clone/internal/job"
)

func newCopyCmd(a *app) *cobra.Command {
	var (
		to       codec.Format
		outDir   string
		noVerify bool
	)
	cmd := &cobra.Command{
		Use:   "copy [files...]",
		Short: "Clone documents and write the copies",
		Long: `Decode each input ("-" or no argument reads stdin), clone it, verify
that the copy has the same shape and shares nothing with the source, and
encode it. Copies go to stdout in input order, or to --out as one file per
input named after it with the output format's extension.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("to") {
				to = a.cfg.OutputFormat()
			}
			if !cmd.Flags().Changed("out") {
				outDir = a.cfg.Output.Dir
			}
			names, err := inputs(args)
			if err != nil {
				return err
			}
			verify := a.cfg.Clone.Verify && !noVerify
			return runCopy(cmd, a, names, to, outDir, verify)
		},
	}
	cmd.Flags().Var(&to, "to", "Output format: json, yaml or cbor (default: input format)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for output files (default: stdout)")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip shape and disjointness checks")
	return cmd
}

func runCopy(cmd *cobra.Command, a *app, names []string, to codec.Format, outDir string, verify bool) error {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	results, runErr := a.runner(job.Options{To: to, Verify: verify}).Run(cmd.Context(), names, job.ReadFile(cmd.InOrStdin()))

	out := cmd.OutOrStdout()
	for _, res := range results {
		if res == nil {
			continue
		}
		if outDir == "" {
			if _, err := out.Write(res.Output); err != nil {
				return err
			}
			continue
		}
		path := outputPath(outDir, res.Name, res.To)
		if err := os.WriteFile(path, res.Output, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		a.logger.Info("wrote copy", zap.String("input", res.Name), zap.String("output", path))
	}
	return runErr
}

// outputPath names the copy of input inside dir.
func outputPath(dir, input string, f codec.Format) string {
	base := "stdin"
	if input != job.Stdin {
		base = filepath.Base(input)
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return filepath.Join(dir, base+f.Ext())
}
