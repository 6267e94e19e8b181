// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cpuminer

import "sync"

// cancelToken is the Mining Driver's single cooperative-cancellation flag:
// one boolean guarded by one mutex, raised by a subscription to the
// "new best tip" signal and consulted by every worker's solver loop at
// well-defined checkpoints. This replaces the teacher's per-worker
// `quit chan struct{}` (node/mining/cpuminer/cpuminer.go's generateBlocks
// took its own quit channel per worker), per the redesign this repo's
// specification mandates: a shared flag rather than N independent
// channels, since every worker must restart on the same tip change.
type cancelToken struct {
	mu        sync.Mutex
	cancelled bool
}

// Cancel raises the flag. Idempotent.
func (c *cancelToken) Cancel() {
	c.mu.Lock()
	c.cancelled = true
	c.mu.Unlock()
}

// Clear lowers the flag, called by a worker once it observes cancellation
// and is about to rebuild its template.
func (c *cancelToken) Clear() {
	c.mu.Lock()
	c.cancelled = false
	c.mu.Unlock()
}

// IsCancelled reports the current flag state.
func (c *cancelToken) IsCancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}
