// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone

import "sync"

// Pass pools for the per-call visited-set and work stack.
// releasePass clears all state, so a pass never observes another call's
// visited entries.

// maxPooledEntries bounds the visited-set size that is returned to the
// pool; larger maps are dropped with the pass.
const maxPooledEntries = 1 << 12

var passPool = sync.Pool{New: func() any {
	return &pass{visited: make(map[Value]Value)}
}}

func acquirePass(maxNodes int) *pass {
	p := passPool.Get().(*pass)
	p.maxNodes = maxNodes
	return p
}

// releasePass zeroes p and returns it to the pool.
func releasePass(p *pass) {
	if len(p.visited) > maxPooledEntries || cap(p.stack) > maxPooledEntries {
		return
	}
	clear(p.visited)
	// Popped frames past len still reference the caller's graphs.
	clear(p.stack[:cap(p.stack)])
	p.stack = p.stack[:0]
	p.stats = Stats{}
	p.maxNodes = 0
	passPool.Put(p)
}
