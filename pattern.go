// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone

import (
	"fmt"
	"regexp"
	"strings"
)

// patternFlags lists the supported flags in canonical order.
// They are the RE2 flags that may appear in a leading (?flags) group.
const patternFlags = "imsU"

// Pattern is a compiled pattern-matcher: pattern text plus behavior flags.
// A Pattern is immutable once constructed. The zero Pattern matches like
// the empty pattern.
type Pattern struct {
	text  string
	flags string
	re    *regexp.Regexp
}

func (*Pattern) value() {}

// NewPattern compiles text with flags.
// Flags are drawn from "imsU"; order and duplicates do not matter.
// Leading (?flags) groups of text that hold only supported flags are
// folded into the flag set, so equal programs have equal text and flags.
// Returns an error wrapping [ErrInvalidPattern] for unknown flags
// or text that does not compile.
func NewPattern(text, flags string) (*Pattern, error) {
	text, lead := splitFlags(text)
	canon, err := canonicalFlags(flags + lead)
	if err != nil {
		return nil, err
	}
	p := &Pattern{text: text, flags: canon}
	re, err := regexp.Compile(p.Expr())
	if err != nil {
		return nil, fmt.Errorf("clone: %w: %v", ErrInvalidPattern, err)
	}
	p.re = re
	return p, nil
}

// MustPattern is like [NewPattern] but panics on error.
func MustPattern(text, flags string) *Pattern {
	p, err := NewPattern(text, flags)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePattern builds a Pattern from a single expression whose leading
// (?flags) groups, if they hold only supported flags, become the flag set.
// ParsePattern(p.Expr()) reproduces p.
func ParsePattern(expr string) (*Pattern, error) {
	return NewPattern(expr, "")
}

// splitFlags strips leading (?flags) groups that hold only supported flags
// and returns the remaining text and the stripped flags.
func splitFlags(text string) (rest, flags string) {
	for strings.HasPrefix(text, "(?") {
		end := strings.IndexByte(text, ')')
		if end <= 2 {
			break
		}
		group := text[2:end]
		if strings.Trim(group, patternFlags) != "" {
			break
		}
		flags += group
		text = text[end+1:]
	}
	return text, flags
}

func canonicalFlags(flags string) (string, error) {
	var seen [len(patternFlags)]bool
	for _, r := range flags {
		i := strings.IndexRune(patternFlags, r)
		if i < 0 {
			return "", fmt.Errorf("clone: %w: unknown flag %q", ErrInvalidPattern, r)
		}
		seen[i] = true
	}
	var b strings.Builder
	for i, ok := range seen {
		if ok {
			b.WriteByte(patternFlags[i])
		}
	}
	return b.String(), nil
}

// Text returns the pattern text without flags.
func (p *Pattern) Text() string { return p.text }

// Flags returns the canonical flag set.
func (p *Pattern) Flags() string { return p.flags }

// Expr returns the pattern as one RE2 expression with a leading flag group.
func (p *Pattern) Expr() string {
	if p.flags == "" {
		return p.text
	}
	return "(?" + p.flags + ")" + p.text
}

// emptyRegexp serves the zero Pattern.
var emptyRegexp = regexp.MustCompile("")

// MatchString reports whether s contains a match of the pattern.
func (p *Pattern) MatchString(s string) bool { return p.Regexp().MatchString(s) }

// Regexp returns the compiled expression.
func (p *Pattern) Regexp() *regexp.Regexp {
	if p.re == nil {
		return emptyRegexp
	}
	return p.re
}

func (p *Pattern) String() string { return "/" + p.text + "/" + p.flags }
