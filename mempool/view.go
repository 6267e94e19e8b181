// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/zecnode/blocktemplate/types/chainhash"
)

// View is a point-in-time snapshot of the mempool's accepted transactions,
// keyed by txid, plus the dependency bookkeeping the Template Assembler
// needs to avoid selecting a child before its in-mempool parents.
type View struct {
	entries map[chainhash.Hash]*Entry

	// children maps a txid to the set of in-mempool txids that spend
	// from it, the reverse of Entry.Parents; used to find newly
	// eligible entries once a parent is selected (§4.5's "orphan
	// becomes eligible" transition, grounded on COrphan's
	// dependsOn/mapDependers pair).
	children map[chainhash.Hash]map[chainhash.Hash]struct{}
}

// NewView builds a View from entries, computing the children index and
// each entry's initial dependency count.
func NewView(entries []*Entry) *View {
	v := &View{
		entries:  make(map[chainhash.Hash]*Entry, len(entries)),
		children: make(map[chainhash.Hash]map[chainhash.Hash]struct{}),
	}
	for _, e := range entries {
		v.entries[e.TxHash] = e
	}
	for _, e := range entries {
		inMempoolParents := 0
		for _, p := range e.Parents {
			if _, ok := v.entries[p]; !ok {
				continue
			}
			inMempoolParents++
			if v.children[p] == nil {
				v.children[p] = make(map[chainhash.Hash]struct{})
			}
			v.children[p][e.TxHash] = struct{}{}
		}
		e.depsSatisfied = inMempoolParents
	}
	return v
}

// Roots returns every entry with no unresolved in-mempool parent, the
// initial eligible set a PriorityQueue is seeded with.
func (v *View) Roots() []*Entry {
	var roots []*Entry
	for _, e := range v.entries {
		if e.depsSatisfied == 0 {
			roots = append(roots, e)
		}
	}
	return roots
}

// Select records that txid has been chosen for the candidate block and
// returns the children entries that became newly eligible as a result
// (every in-mempool parent of theirs has now been selected).
func (v *View) Select(txid chainhash.Hash) []*Entry {
	var newlyEligible []*Entry
	for childHash := range v.children[txid] {
		child := v.entries[childHash]
		if child == nil {
			continue
		}
		child.depsSatisfied--
		if child.depsSatisfied == 0 {
			newlyEligible = append(newlyEligible, child)
		}
	}
	return newlyEligible
}

// Len returns the number of transactions in the view.
func (v *View) Len() int { return len(v.entries) }
