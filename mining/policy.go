// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

// Policy holds the Template Assembler's operator-tunable capacity
// ceilings, the mining-specific subset of the daemon's configuration
// surface (§6). Values are clamped at construction, not at each use.
type Policy struct {
	// BlockMaxSize is the hard ceiling on total assembled block size,
	// never allowed to exceed the consensus maximum.
	BlockMaxSize int

	// BlockPrioritySize is how many leading bytes of the block are
	// reserved for priority-ordered selection before switching to
	// fee-ordered selection (§4.5 step 3-4).
	BlockPrioritySize int

	// BlockMinSize is the minimum size the assembler pads toward with
	// low-fee/free transactions before giving up, mirroring the
	// teacher's "at least fill this much, cheaply, if you can" knob.
	BlockMinSize int

	// MaxSigOps is the consensus ceiling on total sigops across every
	// transaction in the block, coinbase included.
	MaxSigOps int

	// MaxTurnstileCapacity is carried in the policy but not consulted by
	// the Template Assembler: its turnstile gate enforces only the
	// non-negativity invariant, with no bound on the size of a pool's
	// value balance change.
	MaxTurnstileCapacity int64
}

// consensusMaxBlockSize is the hard network ceiling no Policy may exceed,
// mirroring Zcash's 2,000,000-byte block size limit (MAX_BLOCK_SIZE).
const consensusMaxBlockSize = 2_000_000

// consensusMaxSigOps is the hard network ceiling on sigops per block.
const consensusMaxSigOps = 20_000

// DefaultPolicy returns the policy the teacher's daemon config defaults
// to absent operator overrides.
func DefaultPolicy() Policy {
	return Policy{
		BlockMaxSize:          consensusMaxBlockSize,
		BlockPrioritySize:     50_000,
		BlockMinSize:          0,
		MaxSigOps:             consensusMaxSigOps,
		MaxTurnstileCapacity:  0,
	}
}

// blockMaxSizeFloor and blockMaxSizeCeiling bound BlockMaxSize the way
// original_source/src/miner.cpp clamps nBlockMaxSize: max(1000,
// min(MAX_BLOCK_SIZE-1000, n)), reserving headroom for the coinbase and
// leaving a 1000-byte operator-configurable floor.
const (
	blockMaxSizeFloor   = 1000
	blockMaxSizeCeiling = consensusMaxBlockSize - 1000
)

// Clamp enforces the consensus ceilings on an operator-supplied policy, the
// boundary behavior named in §8 ("blockmaxsize=500 is clamped to 1000").
func (p *Policy) Clamp() {
	if p.BlockMaxSize < blockMaxSizeFloor {
		p.BlockMaxSize = blockMaxSizeFloor
	}
	if p.BlockMaxSize > blockMaxSizeCeiling {
		p.BlockMaxSize = blockMaxSizeCeiling
	}
	if p.MaxSigOps <= 0 || p.MaxSigOps > consensusMaxSigOps {
		p.MaxSigOps = consensusMaxSigOps
	}
	if p.BlockPrioritySize > p.BlockMaxSize {
		p.BlockPrioritySize = p.BlockMaxSize
	}
	if p.BlockMinSize > p.BlockMaxSize {
		p.BlockMinSize = p.BlockMaxSize
	}
}
