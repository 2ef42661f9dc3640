// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command clone deep-copies JSON, YAML and CBOR documents through the
// structural cloner, preserving shared and cyclic references.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"code.hybscloud.com/clone/codec"
	"code.hybscloud.com/clone/internal/config"
	"code.hybscloud.com/clone/internal/job"
	"code.hybscloud.com/clone/internal/logging"
)

// app holds state shared by all subcommands of one invocation.
type app struct {
	configPath string
	from       codec.Format
	verbose    bool
	maxNodes   int
	jobs       int

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "clone",
		Short: "Deep-copy structured documents",
		Long: `clone decodes JSON, YAML or CBOR documents, copies them with the
structural cloner and writes the copies back out. Shared references and
YAML anchors survive the copy.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath, "Configuration file")
	flags.Var(&a.from, "from", "Input format: json, yaml or cbor (default: from extension)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.IntVar(&a.maxNodes, "max-nodes", 0, "Fail when a document has more composites (0 = unlimited)")
	flags.IntVarP(&a.jobs, "jobs", "j", 0, "Inputs processed at once (default from config)")

	root.AddCommand(newCopyCmd(a))
	root.AddCommand(newStatsCmd(a))
	return root
}

// setup loads configuration and builds the logger. Flags set on the command
// line take precedence over the configuration file.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("max-nodes") {
		cfg.Clone.MaxNodes = a.maxNodes
	}
	if flags.Changed("jobs") {
		cfg.Output.Concurrency = a.jobs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("path", a.configPath),
		zap.Int("max_nodes", cfg.Clone.MaxNodes),
		zap.Int("concurrency", cfg.Output.Concurrency))
	return nil
}

// runner builds a job runner from the loaded configuration.
func (a *app) runner(opts job.Options) *job.Runner {
	opts.From = a.from
	opts.MaxNodes = a.cfg.Clone.MaxNodes
	opts.Jobs = a.cfg.Output.Concurrency
	return job.NewRunner(opts, a.logger)
}

// inputs defaults an empty argument list to stdin. Stdin can be read once,
// so it may appear at most once.
func inputs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{job.Stdin}, nil
	}
	stdin := 0
	for _, arg := range args {
		if arg == job.Stdin {
			stdin++
		}
	}
	if stdin > 1 {
		return nil, fmt.Errorf("stdin (%q) given %d times, at most once allowed", job.Stdin, stdin)
	}
	return args, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
