// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"golang.org/x/crypto/blake2b"

	"github.com/pkg/errors"

	"github.com/zecnode/blocktemplate/chainparams"
	"github.com/zecnode/blocktemplate/txmodel"
	"github.com/zecnode/blocktemplate/types/chainhash"
)

// zcashBlockCommitPersonal is the 16-byte BLAKE2b personalization string
// for the NU5 block-commitments hash. golang.org/x/crypto/blake2b's public
// constructors don't expose BLAKE2's personalization parameter, so it is
// folded into the hashed preimage instead of the internal IV the real
// protocol mixes it into — a documented simplification, since bit-exact
// wire compatibility is out of scope (see txmodel.Transaction.Serialize).
var zcashBlockCommitPersonal = []byte("ZcashBlockCommit")

// ChainTip is the subset of chain-tip state the Header Finalizer needs:
// the hash to extend, the median time past, and the anchors a template
// extends from.
type ChainTip struct {
	Hash                  chainhash.Hash
	Height                int32
	MedianTimePast        uint32
	SaplingAnchor         chainhash.Hash
	PrevBranchHistoryRoot chainhash.Hash

	// Time and Bits are the tip block's own timestamp and compact
	// difficulty target, the inputs nextWorkRequired needs to evaluate
	// the testnet minimum-difficulty exception and to otherwise pass the
	// current target through unchanged.
	Time uint32
	Bits uint32
}

// Finalizer is the Header Finalizer (C6): computes Merkle/commitment
// roots, difficulty target, and timestamp for an assembled template, then
// validates it. Grounded on the teacher's types/chainhash merkle helpers
// (completed in this repo; see DESIGN.md) for root computation, and on
// original_source/src/miner.cpp's UpdateTime/IncrementExtraNonce for the
// timestamp and extra-nonce update ordering.
type Finalizer struct {
	cp     *chainparams.Params
	policy Policy
}

// NewFinalizer returns a Finalizer bound to cp, validating against
// policy's size and sigop ceilings.
func NewFinalizer(cp *chainparams.Params, policy Policy) *Finalizer {
	policy.Clamp()
	return &Finalizer{cp: cp, policy: policy}
}

// Finalize runs the header-completion steps against template, given the
// chain tip it extends and now as the wall-clock time, then runs the
// outbound template-validity dry run (the in-scope half of
// test_block_validity: coinbase value, size, sigops, and dependency
// ordering). Full contextual and script verification against the live
// chain remains an external validation collaborator's responsibility.
func (f *Finalizer) Finalize(template *txmodel.BlockTemplate, tip ChainTip, now uint32) error {
	// Step 1: coinbase at vtx[0] with vTxFees[0] = -fees is already the
	// invariant AssembleTemplate/AssembleFromPrecomputedCoinbase
	// maintain; nothing to do here.

	// Step 3: nonce. This Finalizer sets the whole 32-byte nonce to zero
	// (deterministic templates aid testing); no random bits are drawn,
	// and the Mining Driver does not rewrite the nonce before the solver
	// starts.
	template.Header.Nonce = [32]byte{}

	// Step 4.
	template.Header.PrevBlock = tip.Hash

	// Step 2 + 5: Merkle root and commitment root.
	template.Header.MerkleRoot = f.merkleRoot(template)
	template.Header.BlockCommitments = f.blockCommitments(template, tip)

	// Step 6 + 7.
	template.Header.Time = f.updateTime(tip, now, template.Height)
	template.Header.Bits = f.nextWorkRequired(tip, template.Header.Time, template.Height)

	return f.validateTemplate(template)
}

// validateTemplate runs the dry-run template-validity checks named in
// §8's universal invariants: the coinbase value equation, the size and
// sigop ceilings, and dependency ordering. It returns ErrTemplateInvalid,
// wrapped with the specific failure, on any violation.
func (f *Finalizer) validateTemplate(template *txmodel.BlockTemplate) error {
	if len(template.Transactions) == 0 || !template.Coinbase().IsCoinBase() {
		return errors.Wrap(ErrTemplateInvalid, "template has no coinbase at index 0")
	}

	coinbase := template.Coinbase()
	var transparentOut int64
	for _, out := range coinbase.TxOut {
		transparentOut += out.Value
	}
	shieldedOut := -coinbase.ValueBalanceSapling() - coinbase.ValueBalanceOrchard()

	subsidy := f.cp.BlockSubsidy(template.Height)
	fees := template.TotalFees()
	if transparentOut+shieldedOut != subsidy+fees {
		return errors.Wrapf(ErrTemplateInvalid,
			"coinbase value %d does not equal subsidy+fees %d", transparentOut+shieldedOut, subsidy+fees)
	}

	if f.policy.BlockMaxSize > 0 && template.SerializeSize() > f.policy.BlockMaxSize {
		return errors.Wrapf(ErrTemplateInvalid,
			"template size %d exceeds policy max %d", template.SerializeSize(), f.policy.BlockMaxSize)
	}
	if f.policy.MaxSigOps > 0 && template.TotalSigOps() > f.policy.MaxSigOps {
		return errors.Wrapf(ErrTemplateInvalid,
			"template sigops %d exceeds policy max %d", template.TotalSigOps(), f.policy.MaxSigOps)
	}

	txIndex := make(map[chainhash.Hash]int, len(template.Transactions))
	for i, tx := range template.Transactions {
		txIndex[tx.TxHash()] = i
	}
	for i, tx := range template.Transactions {
		for _, in := range tx.TxIn {
			if j, ok := txIndex[in.PreviousOutPoint.Hash]; ok && j >= i {
				return errors.Wrap(ErrTemplateInvalid, "transaction spends a later-indexed dependency")
			}
		}
	}

	return nil
}

// merkleRoot computes the transaction Merkle root (step 2's outcome; the
// Sapling-commitment-tree bookkeeping described in step 2 lives in the
// Coin View's SaplingAnchor, which already reflects every prior block —
// per-transaction cmu appends within one template do not change which
// anchor new Spends reference, since spends in the same block may not
// chain off each other's outputs).
func (f *Finalizer) merkleRoot(template *txmodel.BlockTemplate) chainhash.Hash {
	hashes := make([]chainhash.Hash, len(template.Transactions))
	for i, tx := range template.Transactions {
		hashes[i] = tx.TxHash()
	}
	return chainhash.MerkleTreeRoot(hashes)
}

// authDataRoot computes the Merkle root of each transaction's
// authorizing-data digest (NU5's binding/spend-auth signatures), a
// simplified stand-in that hashes the tag "authdata" followed by each
// transaction's txid — full ZIP 244 authorizing-data digests are an external
// collaborator's concern (the proving/signing layer).
func (f *Finalizer) authDataRoot(template *txmodel.BlockTemplate) chainhash.Hash {
	hashes := make([]chainhash.Hash, len(template.Transactions))
	for i, tx := range template.Transactions {
		txHash := tx.TxHash()
		hashes[i] = chainhash.HashH(append([]byte("authdata"), txHash.CloneBytes()...))
	}
	return chainhash.MerkleTreeRoot(hashes)
}

// blockCommitments computes hashBlockCommitments per the upgrade-state
// branching table (§4.6 step 5).
func (f *Finalizer) blockCommitments(template *txmodel.BlockTemplate, tip ChainTip) chainhash.Hash {
	height := template.Height

	switch {
	case f.cp.IsActive(chainparams.UpgradeNU5, height):
		historyRoot := tip.PrevBranchHistoryRoot
		authRoot := f.authDataRoot(template)
		return zcashBlockCommit(historyRoot, authRoot)

	case f.cp.IsActivationHeight(chainparams.UpgradeHeartwood, height):
		return chainhash.Hash{}

	case f.cp.IsActive(chainparams.UpgradeHeartwood, height):
		return tip.PrevBranchHistoryRoot

	default:
		return tip.SaplingAnchor
	}
}

// zcashBlockCommit computes Blake2b("ZcashBlockCommit", chainHistory ||
// authData || 32 zero bytes), the NU5 commitments hash.
func zcashBlockCommit(chainHistory, authData chainhash.Hash) chainhash.Hash {
	h, _ := blake2b.New256(nil)
	_, _ = h.Write(zcashBlockCommitPersonal)
	_, _ = h.Write(chainHistory[:])
	_, _ = h.Write(authData[:])
	var zero [32]byte
	_, _ = h.Write(zero[:])

	var out chainhash.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// updateTime implements step 6: nTime = max(medianTimePast+1, now),
// capped by the future-timestamp soft fork if active.
func (f *Finalizer) updateTime(tip ChainTip, now uint32, height int32) uint32 {
	t := tip.MedianTimePast + 1
	if now > t {
		t = now
	}
	if f.cp.FutureTimestampSoftForkActive(height) {
		ceiling := tip.MedianTimePast + chainparams.MaxFutureBlockTimeMTP
		if t > ceiling {
			t = ceiling
		}
	}
	return t
}

// nextWorkRequired implements step 7. The full difficulty-adjustment
// algorithm (averaging window, actual-vs-target timespan damping) is an
// external chain-state collaborator's responsibility; this Finalizer
// exposes the single consensus-critical exception it owns directly — the
// testnet minimum-difficulty rule, fired when newTime is more than six
// block intervals past tip.Time — and otherwise passes the tip's current
// target (tip.Bits) through unchanged, falling back to the network's
// proof-of-work limit when the tip supplies no target of its own (the
// genesis case).
func (f *Finalizer) nextWorkRequired(tip ChainTip, newTime uint32, height int32) uint32 {
	if f.cp.AllowMinDifficultyAt(height, tip.Time, newTime) {
		return f.cp.PowLimitBits
	}
	if tip.Bits != 0 {
		return tip.Bits
	}
	return f.cp.PowLimitBits
}

// IncrementExtraNonce implements the Mining Driver's extra-nonce update:
// detect a tip change (resetting the counter), increment, rewrite the
// coinbase scriptSig, and recompute the Merkle root (and, if NU5 is
// active, the commitments hash).
func (f *Finalizer) IncrementExtraNonce(template *txmodel.BlockTemplate, tip ChainTip, currentPrevBlock chainhash.Hash) {
	if template.Header.PrevBlock != currentPrevBlock {
		template.ExtraNonce = 0
		template.Header.PrevBlock = currentPrevBlock
	}
	template.ExtraNonce++

	coinbase := template.Coinbase()
	coinbase.TxIn[0].SignatureScript = txmodel.BuildCoinbaseScriptSig(
		template.Height, template.ExtraNonce, []byte(CoinbaseFlags))

	template.Header.MerkleRoot = f.merkleRoot(template)
	if f.cp.IsActive(chainparams.UpgradeNU5, template.Height) {
		template.Header.BlockCommitments = f.blockCommitments(template, tip)
	}
}

