// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone

// Option configures a [Cloner].
type Option func(*options)

type options struct {
	maxNodes int
}

// WithMaxNodes bounds the number of composites one pass may allocate.
// A pass that needs more fails with [ErrLimitExceeded]. Zero means unlimited.
func WithMaxNodes(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxNodes = n
	}
}

// Stats describes one cloning pass.
type Stats struct {
	// Composites is the number of sequences and records allocated.
	Composites int
	// Shared counts composite references that resolved to an existing clone,
	// including back-references of cycles.
	Shared int
	// Primitives counts primitive values copied, including nil.
	Primitives int
	// Patterns and Timestamps count reconstructed values.
	Patterns   int
	Timestamps int
	// Depth is the deepest composite nesting level reached; the root
	// composite is at depth 1.
	Depth int
}

// Cloner holds configuration for cloning passes.
// A Cloner is immutable and safe for concurrent use; every pass owns its
// visited-set.
type Cloner struct {
	opts options
}

// New returns a Cloner configured with opts.
func New(opts ...Option) *Cloner {
	c := &Cloner{}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

// Clone returns an independent copy of v.
//
// Primitives are returned unchanged. Patterns and timestamps are rebuilt.
// Sequences and records are copied field by field; a composite reached more
// than once, including through a cycle, maps to a single copy.
// Only own record fields are copied; the copy shares the source's prototype.
//
// On error the result is nil and nothing is partially returned.
func (c *Cloner) Clone(v Value) (Value, error) {
	out, _, err := c.run(v)
	return out, err
}

// CloneWithStats is like [Cloner.Clone] and also reports pass statistics.
// Stats are valid up to the point of failure when err is non-nil.
func (c *Cloner) CloneWithStats(v Value) (Value, Stats, error) {
	return c.run(v)
}

func (c *Cloner) run(v Value) (Value, Stats, error) {
	p := acquirePass(c.opts.maxNodes)
	defer releasePass(p)
	out, err := p.clone(v)
	if err != nil {
		return nil, p.stats, err
	}
	return out, p.stats, nil
}

var defaultCloner = New()

// Clone returns an independent copy of v using a default [Cloner]
// configured with opts.
func Clone(v Value, opts ...Option) (Value, error) {
	if len(opts) == 0 {
		return defaultCloner.Clone(v)
	}
	return New(opts...).Clone(v)
}

// Of is [Clone] for a statically known kind.
//
//	rec := clone.NewRecord()
//	cp, err := clone.Of(rec) // cp is *clone.Record
func Of[V Value](v V, opts ...Option) (V, error) {
	out, err := Clone(v, opts...)
	if err != nil {
		var zero V
		return zero, err
	}
	if out == nil {
		var zero V
		return zero, nil
	}
	return out.(V), nil
}

// MustClone is like [Clone] but panics on error.
func MustClone(v Value) Value {
	out, err := defaultCloner.Clone(v)
	if err != nil {
		panic(err)
	}
	return out
}
