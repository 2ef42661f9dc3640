// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package job runs decode, clone, verify and encode over a batch of
// documents.
package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/clone"
	"code.hybscloud.com/clone/codec"
	"code.hybscloud.com/clone/internal/logging"
)

// Stdin names the standard input in an input list.
const Stdin = "-"

// ErrVerify reports a clone that aliases its source or differs in shape.
var ErrVerify = errors.New("job: clone verification failed")

// Options configures a Runner.
type Options struct {
	From     codec.Format // 0 = detect from the file extension, JSON on stdin
	To       codec.Format // 0 = keep the input format
	Verify   bool
	NoOutput bool // skip encoding; Result.Output stays nil
	MaxNodes int
	Jobs     int // inputs processed at once; <1 means 1
}

// Result is the outcome of one input.
type Result struct {
	Name   string
	From   codec.Format
	To     codec.Format
	Stats  clone.Stats
	Output []byte
}

// ReadFunc returns the contents of a named input.
type ReadFunc func(name string) ([]byte, error)

// Runner processes inputs. It is safe for concurrent use.
type Runner struct {
	opts   Options
	cloner *clone.Cloner
	logger *zap.Logger
}

// NewRunner returns a Runner. A nil logger discards output.
func NewRunner(opts Options, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &Runner{
		opts:   opts,
		cloner: clone.New(clone.WithMaxNodes(opts.MaxNodes)),
		logger: logger,
	}
}

// inputFormat resolves the decoding format of name.
func (r *Runner) inputFormat(name string) (codec.Format, error) {
	if r.opts.From != 0 {
		return r.opts.From, nil
	}
	if name == Stdin {
		return codec.JSON, nil
	}
	return codec.FormatFromPath(name)
}

// Process decodes data, clones it, and verifies and encodes the clone as
// configured.
func (r *Runner) Process(name string, data []byte) (*Result, error) {
	from, err := r.inputFormat(name)
	if err != nil {
		return nil, err
	}
	src, err := codec.Decode(from, data)
	if err != nil {
		return nil, err
	}
	dst, st, err := r.cloner.CloneWithStats(src)
	if err != nil {
		return nil, err
	}
	if r.opts.Verify {
		if !clone.SameShape(src, dst) {
			return nil, fmt.Errorf("%w: shape differs", ErrVerify)
		}
		if !clone.Disjoint(src, dst) {
			return nil, fmt.Errorf("%w: clone shares composites with source", ErrVerify)
		}
	}
	to := r.opts.To
	if to == 0 {
		to = from
	}
	var out []byte
	if !r.opts.NoOutput {
		out, err = codec.Encode(to, dst)
		if err != nil {
			return nil, err
		}
	}
	r.logger.Debug("cloned",
		append([]zap.Field{zap.String("input", name), zap.Stringer("from", from), zap.Stringer("to", to)},
			logging.Stats(st)...)...)
	return &Result{Name: name, From: from, To: to, Stats: st, Output: out}, nil
}

// Run processes every input with at most Options.Jobs in flight. Results are
// returned in input order, nil where an input failed. Every failure is
// reported in the returned error.
func (r *Runner) Run(ctx context.Context, names []string, read ReadFunc) ([]*Result, error) {
	results := make([]*Result, len(names))
	errs := make([]error, len(names))

	var g errgroup.Group
	g.SetLimit(r.opts.Jobs)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("%s: %w", name, err)
				return nil
			}
			data, err := read(name)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", name, err)
				return nil
			}
			res, err := r.Process(name, data)
			if err != nil {
				r.logger.Warn("input failed", zap.String("input", name), zap.Error(err))
				errs[i] = fmt.Errorf("%s: %w", name, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var merr *multierror.Error
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return results, merr.ErrorOrNil()
}

// ReadFile reads a named file, or stdin for [Stdin].
func ReadFile(stdin io.Reader) ReadFunc {
	return func(name string) ([]byte, error) {
		if name == Stdin {
			return io.ReadAll(stdin)
		}
		return os.ReadFile(name)
	}
}
