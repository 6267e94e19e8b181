// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mempool is the Mempool View (C3): a read-only, priority-ordered
// projection of pending transactions for the Template Assembler to
// iterate. The priority-queue-of-candidates pattern, and the switch from a
// priority comparator to a fee-rate comparator partway through assembly,
// is grounded on decred-dcrd's mining package (txPriorityQueue /
// txPQByStakeAndFee), reached for here because the teacher's own mempool
// package is a full p2p-facing transaction pool outside this module's
// scope — only its selection algorithm's shape is reused.
package mempool

import (
	"github.com/zecnode/blocktemplate/txmodel"
	"github.com/zecnode/blocktemplate/types/chainhash"
)

// Entry is one mempool-resident transaction plus the memoized fields the
// Template Assembler's comparators sort on, computed once at admission
// time rather than recomputed per comparison (§3.1, grounded on
// COrphan's cached feeRate/priority fields).
type Entry struct {
	Tx       *txmodel.Transaction
	TxHash   chainhash.Hash
	Fee      int64
	Size     int
	SigOps   int
	Priority float64
	FeeRate  float64

	// Parents lists the txids of in-mempool transactions this entry
	// spends from; the Template Assembler must not select Entry before
	// every parent in Parents already appears in the candidate block
	// (§4.5's dependency-ordering invariant).
	Parents []chainhash.Hash

	// depsSatisfied is maintained by View as parents are selected; an
	// entry only becomes eligible for selection once this reaches zero.
	depsSatisfied int
}

// ComputePriority computes COrphan-style transaction priority: the sum of each
// input's (value * age-in-blocks), divided by the transaction's
// serialized size. inputValues and inputHeights are parallel to tx's TxIn.
func ComputePriority(size int, inputValues []int64, inputHeights []int32, currentHeight int32) float64 {
	if size == 0 {
		return 0
	}
	var sum float64
	for i, v := range inputValues {
		age := currentHeight - inputHeights[i]
		if age < 0 {
			age = 0
		}
		sum += float64(v) * float64(age)
	}
	return sum / float64(size)
}

// ComputeFeeRate returns fee expressed per 1000 serialized bytes, the unit
// the Template Assembler's ByFee comparator sorts on.
func ComputeFeeRate(fee int64, size int) float64 {
	if size == 0 {
		return 0
	}
	return float64(fee) * 1000 / float64(size)
}
