// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone_test

import (
	"code.hybscloud.com/clone"
	"testing"
)

func TestCloneAllocationsPrimitive(t *testing.T) {
	v := clone.Value(clone.String("hello"))
	allocs := testing.AllocsPerRun(100, func() {
		_, _ = clone.Clone(v)
	})
	if allocs >= 1 {
		t.Errorf("Clone(String) allocs = %v; want 0", allocs)
	}
}

func TestCloneAllocationsSequence(t *testing.T) {
	s := clone.NewSequence(clone.Int(1), clone.Int(2), clone.Int(3))
	allocs := testing.AllocsPerRun(100, func() {
		_, _ = clone.Clone(s)
	})
	// The new *Sequence and its backing array.
	if allocs > 2 {
		t.Errorf("Clone(Sequence) allocs = %v; want <= 2", allocs)
	}
}
