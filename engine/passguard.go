// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"sync"

	"github.com/outrigdev/goid"
)

// passGuard is a misuse tripwire, not a synchronization primitive: a Root is
// single-threaded by contract, and concurrent entry from a second goroutine
// is a caller bug that would silently corrupt the tree. Reentrant entry from
// the same goroutine is fine (Render drives Mount/Diff/Apply).
type passGuard struct {
	mu    sync.Mutex
	goId  uint64
	depth int
}

func (g *passGuard) enter() {
	gid := goid.Get()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.depth > 0 && g.goId != gid {
		panic("engine: concurrent reconciliation on one Root")
	}
	g.goId = gid
	g.depth++
}

func (g *passGuard) exit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.depth--
	if g.depth == 0 {
		g.goId = 0
	}
}
