// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package clone provides structural deep copies of dynamic value graphs in
// Go, preserving shared and cyclic references.
//
// The core operation [Clone] returns an independent copy of a [Value]. The
// copy is structurally equal to the source, shares no mutable composite with
// it, and keeps the source's aliasing topology: a composite reached through
// two paths, or through a cycle back to an ancestor, becomes exactly one
// composite in the copy.
//
// # Value Model
//
// [Value] is a closed tagged union. A marker method keeps the set of kinds
// fixed; dispatch uses type switches.
//
// Primitives (copied by value, identity irrelevant):
//
//   - [Null]: the absence-of-value marker (a nil [Value] behaves the same)
//   - [Bool], [Int], [Float], [String]
//
// Opaque values (rebuilt on clone):
//
//   - [Pattern]: pattern text plus flags from "imsU" ([NewPattern], [ParsePattern])
//   - [Timestamp]: a calendar instant ([NewTimestamp])
//
// Composites (copied field by field, identity is the pointer):
//
//   - [Sequence]: ordered elements ([NewSequence])
//   - [Record]: ordered own fields plus an optional prototype ([NewRecord], [Extend])
//
// [Record.Lookup] walks the prototype chain; [Record.Get], [Record.Keys] and
// cloning see own fields only. A cloned record keeps the source's prototype.
//
// [KindOf] classifies a value; [Kind.Primitive] and [Kind.Composite] group
// the kinds.
//
// # Cloning
//
//   - [Clone]: copy with default or per-call [Option]s
//   - [Of]: typed variant, Of(*Record) returns *Record
//   - [MustClone]: panics on error
//   - [New]: reusable [Cloner]; [Cloner.CloneWithStats] reports [Stats]
//   - [WithMaxNodes]: bound the composites allocated by one pass
//
// Each pass owns a visited-set from source composite to copy. A composite is
// registered before any of its fields are copied, which is what resolves
// back-references of cycles to the copy in progress. Fields are filled from
// an explicit work stack, so deep inputs do not grow the Go stack.
//
// Dynamic types outside the closed set, such as a user struct that embeds
// *Record, fail the whole pass with [ErrUnsupportedKind]. No zero-argument
// construction of unknown types is attempted.
//
// # Comparison
//
//   - [Equal]: cycle-aware structural equality
//   - [SameShape]: [Equal] plus identical aliasing topology
//   - [Disjoint]: no shared composite, pattern or timestamp
//
// For any supported v without mutation in between:
//
//	c, _ := clone.Clone(v)
//	clone.SameShape(v, c) && clone.Disjoint(v, c) // true
//
// # Native Values
//
// [FromNative] and [ToNative] bridge plain Go values (map[string]any, []any,
// scalars, time.Time, *regexp.Regexp). [ToNative] fails with [ErrCycle] on
// cyclic input.
//
// # Errors
//
// [ErrUnsupportedKind], [ErrLimitExceeded], [ErrCycle] and
// [ErrInvalidPattern] are returned wrapped; match them with errors.Is.
//
// # Example
//
//	root := clone.NewRecord()
//	root.Set("name", clone.String("a"))
//	root.Set("ref", root)
//
//	cp := clone.MustClone(root).(*clone.Record)
//	ref, _ := cp.Get("ref")
//	// ref == cp, cp != root
package clone
