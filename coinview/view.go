// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package coinview is the Coin View (C2): a read-mostly overlay over chain
// state that answers "is this outpoint spendable" and "what shielded
// anchors are valid" without performing any I/O itself. The overlay map
// pattern mirrors the teacher's blockchain.UtxoViewpoint — a base lookup
// plus an in-memory delta — but trimmed to the read-only surface a
// template assembler needs; there is no persistence library underneath,
// since storage is an external collaborator per the module boundary.
package coinview

import (
	"github.com/zecnode/blocktemplate/txmodel"
	"github.com/zecnode/blocktemplate/types/chainhash"
)

// BaseLookup is the chain-state accessor a View overlays: whatever the
// host node uses for confirmed-chain storage (in production: a database
// backed UTXO set; in tests: an in-memory map). The Coin View never
// constructs or owns this itself.
type BaseLookup interface {
	GetCoin(outpoint txmodel.OutPoint) (*txmodel.Coin, bool)
	SaplingAnchor() chainhash.Hash
	OrchardAnchor() chainhash.Hash
	HistoryRoot(branchID uint32) chainhash.Hash
}

// View is a snapshot of spendable coins as of a particular tip, with an
// in-memory overlay recording coins spent or created by transactions
// provisionally accepted into a candidate block. Overlay entries shadow
// the base; an overlay entry with spent=true records "spent",
// distinct from "never existed" (absent from the overlay entirely).
type View struct {
	base    BaseLookup
	overlay map[txmodel.OutPoint]overlayEntry
}

type overlayEntry struct {
	coin   *txmodel.Coin
	spent  bool
}

// New creates a View overlaying base.
func New(base BaseLookup) *View {
	return &View{
		base:    base,
		overlay: make(map[txmodel.OutPoint]overlayEntry),
	}
}

// HasCoin reports whether outpoint is spendable in this view.
func (v *View) HasCoin(outpoint txmodel.OutPoint) bool {
	_, ok := v.GetCoin(outpoint)
	return ok
}

// GetCoin returns the coin at outpoint, consulting the overlay before
// falling back to the base lookup.
func (v *View) GetCoin(outpoint txmodel.OutPoint) (*txmodel.Coin, bool) {
	if e, ok := v.overlay[outpoint]; ok {
		if e.spent {
			return nil, false
		}
		return e.coin, true
	}
	return v.base.GetCoin(outpoint)
}

// HasAllInputs reports whether every transparent input of tx spends a
// coin present in this view; coinbase transactions vacuously pass.
func (v *View) HasAllInputs(tx *txmodel.Transaction) bool {
	if tx.IsCoinBase() {
		return true
	}
	for _, in := range tx.TxIn {
		if !v.HasCoin(in.PreviousOutPoint) {
			return false
		}
	}
	return true
}

// ValueIn sums the value of every coin a transaction's transparent inputs
// spend; the caller must have already confirmed HasAllInputs.
func (v *View) ValueIn(tx *txmodel.Transaction) int64 {
	var total int64
	for _, in := range tx.TxIn {
		if c, ok := v.GetCoin(in.PreviousOutPoint); ok {
			total += c.Value
		}
	}
	return total
}

// SaplingAnchor returns the Sapling note commitment tree root this view's
// base lookup considers valid for new Spend descriptions.
func (v *View) SaplingAnchor() chainhash.Hash {
	return v.base.SaplingAnchor()
}

// OrchardAnchor returns the Orchard note commitment tree root this view's
// base lookup considers valid for new Actions.
func (v *View) OrchardAnchor() chainhash.Hash {
	return v.base.OrchardAnchor()
}

// HistoryRoot returns the chain history commitment root (ZIP 221) for the
// consensus branch identified by branchID, the value folded into
// BlockCommitments post-Heartwood. Each network upgrade keeps its own
// history tree, so the caller must name which branch it wants the root
// for.
func (v *View) HistoryRoot(branchID uint32) chainhash.Hash {
	return v.base.HistoryRoot(branchID)
}

// Apply records tx's effect on the view: its transparent inputs are marked
// spent and its transparent outputs become newly spendable coins at
// height. Called once a transaction is provisionally accepted into the
// candidate block, before considering the next candidate.
func (v *View) Apply(tx *txmodel.Transaction, height int32) {
	txHash := tx.TxHash()

	if !tx.IsCoinBase() {
		for _, in := range tx.TxIn {
			v.overlay[in.PreviousOutPoint] = overlayEntry{spent: true}
		}
	}

	for i, out := range tx.TxOut {
		op := txmodel.OutPoint{Hash: txHash, Index: uint32(i)}
		v.overlay[op] = overlayEntry{
			coin: &txmodel.Coin{
				Value:    out.Value,
				Height:   height,
				PkScript: out.PkScript,
				Coinbase: tx.IsCoinBase(),
			},
		}
	}
}

// Clone returns an independent copy of v sharing the same base lookup but
// with its own overlay, so the Template Assembler can speculatively apply
// a transaction and roll back by discarding the clone.
func (v *View) Clone() *View {
	c := &View{base: v.base, overlay: make(map[txmodel.OutPoint]overlayEntry, len(v.overlay))}
	for k, val := range v.overlay {
		c.overlay[k] = val
	}
	return c
}
