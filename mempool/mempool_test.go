// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zecnode/blocktemplate/types/chainhash"
)

func TestPriorityQueueOrdersByPriority(t *testing.T) {
	pq := NewPriorityQueue(ByPriority)
	pq.PushEntry(&Entry{Priority: 10})
	pq.PushEntry(&Entry{Priority: 50})
	pq.PushEntry(&Entry{Priority: 30})

	require.Equal(t, 50.0, pq.PopEntry().Priority)
	require.Equal(t, 30.0, pq.PopEntry().Priority)
	require.Equal(t, 10.0, pq.PopEntry().Priority)
	require.Nil(t, pq.PopEntry())
}

func TestByPriorityTiebreaksOnFeeRate(t *testing.T) {
	pq := NewPriorityQueue(ByPriority)
	pq.PushEntry(&Entry{Priority: 50, FeeRate: 10})
	pq.PushEntry(&Entry{Priority: 50, FeeRate: 90})

	require.Equal(t, 90.0, pq.PopEntry().FeeRate, "equal priority must tiebreak on descending fee rate")
}

func TestByFeeTiebreaksOnPriority(t *testing.T) {
	pq := NewPriorityQueue(ByFee)
	pq.PushEntry(&Entry{Priority: 10, FeeRate: 50})
	pq.PushEntry(&Entry{Priority: 90, FeeRate: 50})

	require.Equal(t, 90.0, pq.PopEntry().Priority, "equal fee rate must tiebreak on descending priority")
}

func TestPriorityQueueSwitchToFeeReheapifies(t *testing.T) {
	pq := NewPriorityQueue(ByPriority)
	pq.PushEntry(&Entry{Priority: 1, FeeRate: 100})
	pq.PushEntry(&Entry{Priority: 99, FeeRate: 1})

	pq.SetLessFunc(ByFee)
	require.Equal(t, 100.0, pq.PopEntry().FeeRate)
}

func TestViewRootsExcludeDependents(t *testing.T) {
	parent := &Entry{TxHash: chainhash.Hash{0x01}}
	child := &Entry{TxHash: chainhash.Hash{0x02}, Parents: []chainhash.Hash{parent.TxHash}}

	v := NewView([]*Entry{parent, child})
	roots := v.Roots()
	require.Len(t, roots, 1)
	require.Equal(t, parent.TxHash, roots[0].TxHash)
}

func TestViewSelectUnlocksChild(t *testing.T) {
	parent := &Entry{TxHash: chainhash.Hash{0x01}}
	child := &Entry{TxHash: chainhash.Hash{0x02}, Parents: []chainhash.Hash{parent.TxHash}}

	v := NewView([]*Entry{parent, child})
	newlyEligible := v.Select(parent.TxHash)

	require.Len(t, newlyEligible, 1)
	require.Equal(t, child.TxHash, newlyEligible[0].TxHash)
}

func TestComputeFeeRate(t *testing.T) {
	require.Equal(t, 1000.0, ComputeFeeRate(1000, 1000))
	require.Equal(t, 0.0, ComputeFeeRate(500, 0))
}

func TestComputePriority(t *testing.T) {
	p := ComputePriority(250, []int64{1000}, []int32{90}, 100)
	require.Equal(t, float64(1000*10)/250, p)
}
