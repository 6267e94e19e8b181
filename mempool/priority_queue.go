// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import "container/heap"

// LessFunc orders two entries; PriorityQueue is a max-heap under whichever
// LessFunc is currently installed, so "Less(a, b)" here means "a sorts
// after b" in the usual sense — the underlying container/heap contract
// requires Less(i, j) true when i should pop before j, so ByPriority and
// ByFee report true when the first argument is HIGHER priority/fee.
type LessFunc func(a, b *Entry) bool

// ByPriority orders entries by descending COrphan-style priority, tied
// entries broken by descending fee rate, the comparator the Template
// Assembler uses until BlockPrioritySize bytes have been filled (§4.5 step
// 3).
func ByPriority(a, b *Entry) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.FeeRate > b.FeeRate
}

// ByFee orders entries by descending fee rate, tied entries broken by
// descending priority, the comparator installed once priority-ordered
// selection hands off to fee-ordered selection (§4.5 step 4).
func ByFee(a, b *Entry) bool {
	if a.FeeRate != b.FeeRate {
		return a.FeeRate > b.FeeRate
	}
	return a.Priority > b.Priority
}

// PriorityQueue is a binary heap of eligible mempool entries (those whose
// dependencies are already satisfied), ordered by a swappable LessFunc.
// Grounded on decred-dcrd's txPriorityQueue, which implements the same
// "switch the comparator mid-selection" pattern via a stored less field
// and a SetLessFunc-equivalent.
type PriorityQueue struct {
	items []*Entry
	less  LessFunc
}

// NewPriorityQueue returns an empty queue ordered by less.
func NewPriorityQueue(less LessFunc) *PriorityQueue {
	pq := &PriorityQueue{less: less}
	heap.Init(pq)
	return pq
}

// Len implements heap.Interface.
func (pq *PriorityQueue) Len() int { return len(pq.items) }

// Less implements heap.Interface.
func (pq *PriorityQueue) Less(i, j int) bool { return pq.less(pq.items[i], pq.items[j]) }

// Swap implements heap.Interface.
func (pq *PriorityQueue) Swap(i, j int) { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

// pushRaw appends x to the backing slice without restoring heap order;
// Push delegates to it.
func (pq *PriorityQueue) pushRaw(x interface{}) { pq.items = append(pq.items, x.(*Entry)) }

// Push implements heap.Interface (named to satisfy the interface; callers
// should use heap.Push(pq, entry)).
func (pq *PriorityQueue) Push(x interface{}) { pq.pushRaw(x) }

// Pop implements heap.Interface (callers should use heap.Pop(pq)).
func (pq *PriorityQueue) Pop() interface{} {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	pq.items = old[:n-1]
	return item
}

// SetLessFunc installs a new comparator and re-heapifies in place,
// grounding the priority-to-fee switch (§4.5 step 4) in a single
// O(n) Init call rather than rebuilding the queue from scratch.
func (pq *PriorityQueue) SetLessFunc(less LessFunc) {
	pq.less = less
	heap.Init(pq)
}

// PushEntry adds e to the queue.
func (pq *PriorityQueue) PushEntry(e *Entry) {
	heap.Push(pq, e)
}

// PopEntry removes and returns the highest-priority entry, or nil if the
// queue is empty.
func (pq *PriorityQueue) PopEntry() *Entry {
	if pq.Len() == 0 {
		return nil
	}
	return heap.Pop(pq).(*Entry)
}

// Peek returns the highest-priority entry without removing it, or nil.
func (pq *PriorityQueue) Peek() *Entry {
	if pq.Len() == 0 {
		return nil
	}
	return pq.items[0]
}
