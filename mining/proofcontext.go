// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import "sync"

// ProofParams is the opaque, network-specific Sapling/Orchard proving
// material (proving keys, parameter file handles) a ProofContext wraps.
// Loading it is expensive and I/O-bound; this package never constructs
// one itself, only consumes it through the ProofContext boundary.
type ProofParams interface {
	// CreateSaplingOutput builds an OutputDescription paying value to
	// the given Sapling address using the all-zero outgoing viewing
	// key, so the shielded coinbase output stays recoverable by anyone
	// scanning with ovk=0 (§4.4 step 6's dummy-output requirement).
	CreateSaplingOutput(addr [43]byte, value int64, ovk [32]byte) ([]byte, error)

	// CreateOrchardDummyAction builds the zero-value dummy Orchard
	// action the Coinbase Builder adds next to an Orchard miner output
	// (§4.4 step 7, §9 design note).
	CreateOrchardDummyAction() ([]byte, error)

	// BindSaplingSignature produces the 64-byte binding signature over
	// a Sapling bundle's value balance and spend/output authorizing
	// data.
	BindSaplingSignature(valueBalance int64, sighash [32]byte) ([64]byte, error)
}

// ProofContext is a scoped resource wrapping the proving material needed
// to construct shielded coinbase outputs: expensive to acquire, cheap to
// reuse across many template assemblies, and must be released exactly
// once. Grounded on the teacher's CPUMiner, which holds a long-lived
// resource (its worker pool) behind a guarded Start/Stop pair; here the
// guard is narrowed to a single idempotent Close using sync.Once rather
// than a start/stop state machine, since a proof context has no running
// goroutines of its own.
type ProofContext struct {
	params ProofParams
	closed sync.Once
	release func()
}

// NewProofContext wraps params, with release invoked exactly once when
// Close is called (or a no-op if the underlying params need no explicit
// teardown).
func NewProofContext(params ProofParams, release func()) *ProofContext {
	if release == nil {
		release = func() {}
	}
	return &ProofContext{params: params, release: release}
}

// Params returns the underlying proving material for use by the Coinbase
// Builder.
func (c *ProofContext) Params() ProofParams {
	return c.params
}

// Close releases the underlying proving material. Safe to call multiple
// times or from multiple goroutines; only the first call has effect.
func (c *ProofContext) Close() {
	c.closed.Do(c.release)
}
