// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone

import (
	"errors"
	"fmt"
)

// Errors returned by the package are wrapped with context; match them with
// errors.Is.
var (
	// ErrUnsupportedKind reports a value outside the closed set of kinds.
	ErrUnsupportedKind = errors.New("unsupported kind")

	// ErrLimitExceeded reports a pass that would allocate more composites
	// than allowed by [WithMaxNodes].
	ErrLimitExceeded = errors.New("node limit exceeded")

	// ErrCycle reports a cyclic value where the target representation
	// cannot express cycles.
	ErrCycle = errors.New("cyclic value")

	// ErrInvalidPattern reports pattern text or flags that do not compile.
	ErrInvalidPattern = errors.New("invalid pattern")
)

func unsupported(v any) error {
	return fmt.Errorf("clone: %w: %T", ErrUnsupportedKind, v)
}
