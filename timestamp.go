// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone

import "time"

// Timestamp is a calendar instant. A Timestamp is immutable once constructed.
// The zero Timestamp holds the zero time.Time.
type Timestamp struct {
	t time.Time
}

func (*Timestamp) value() {}

// NewTimestamp returns a Timestamp holding the instant of t.
// The monotonic clock reading is dropped; the location is kept.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{t: t.Round(0)}
}

// Time returns the instant.
func (ts *Timestamp) Time() time.Time { return ts.t }

// Equal reports whether ts and u denote the same instant.
// Nil timestamps are equal only to each other.
func (ts *Timestamp) Equal(u *Timestamp) bool {
	if ts == nil || u == nil {
		return ts == u
	}
	return ts.t.Equal(u.t)
}

func (ts *Timestamp) String() string { return ts.t.Format(time.RFC3339Nano) }
