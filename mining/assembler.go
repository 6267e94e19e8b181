// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"go.uber.org/zap"

	"github.com/zecnode/blocktemplate/chainparams"
	"github.com/zecnode/blocktemplate/coinview"
	"github.com/zecnode/blocktemplate/mempool"
	"github.com/zecnode/blocktemplate/txmodel"
)

// coinbaseSizeReserve and coinbaseSigOpsReserve seed the running size/sigop
// counters before any transaction is selected, reserving room for the
// coinbase itself — which is only sized after selection completes (the
// dummy-coinbase deferral; see the design note this repo resolves by
// constructing the coinbase last, once total fees are known).
const (
	coinbaseSizeReserve   = 1000
	coinbaseSigOpsReserve = 100
)

// allowFreePriorityThreshold is COIN*144/250: a transaction whose priority
// exceeds it may bypass the free-relay fee floor, the AllowFree() threshold
// original_source/src/miner.cpp applies both in the ByPriority->ByFee
// switch and in the free-tx gate below.
const allowFreePriorityThreshold = 57_600_000

// allowFree reports whether priority is high enough to bypass the free-tx
// fee floor.
func allowFree(priority float64) bool {
	return priority > allowFreePriorityThreshold
}

// minRelayFeeRate is the fee-rate floor (value per 1000 serialized bytes)
// below which a transaction is considered "free" once the block has grown
// past BlockMinSize, mirroring CTransaction::minRelayTxFee.
const minRelayFeeRate = 1000

// coinbaseMaturity is the number of blocks a coinbase output must age
// before it may be spent, the one ContextualCheckInputs rule this scope
// models directly — full script/signature verification is an external
// collaborator's concern.
const coinbaseMaturity = 100

// contextualCheckInputs reports whether tx's inputs are spendable at
// height under the maturity rule: no output of a coinbase transaction may
// be spent before it is coinbaseMaturity blocks deep.
func contextualCheckInputs(view *coinview.View, tx *txmodel.Transaction, height int32) bool {
	if tx.IsCoinBase() {
		return true
	}
	for _, in := range tx.TxIn {
		coin, ok := view.GetCoin(in.PreviousOutPoint)
		if !ok {
			return false
		}
		if coin.Coinbase && height-coin.Height < coinbaseMaturity {
			return false
		}
	}
	return true
}

// p2shSigOps returns the accurate sigop count contributed by tx's inputs
// that spend a P2SH output, counting sigops in the redeem script carried as
// the final push of each such input's scriptSig. Legacy (non-P2SH) sigops
// are already reflected in the mempool entry's memoized SigOps field.
func p2shSigOps(view *coinview.View, tx *txmodel.Transaction) int {
	if tx.IsCoinBase() {
		return 0
	}
	total := 0
	for _, in := range tx.TxIn {
		coin, ok := view.GetCoin(in.PreviousOutPoint)
		if !ok || !txmodel.IsPayToScriptHash(coin.PkScript) {
			continue
		}
		redeem := txmodel.LastPushData(in.SignatureScript)
		total += txmodel.CountSigOps(redeem, true)
	}
	return total
}

// PoolBalances is a running snapshot of the three shielded pools' value
// balances, used by the turnstile gate (ZIP 209) to reject any selection
// that would drive a pool negative.
type PoolBalances struct {
	Sprout  int64
	Sapling int64
	Orchard int64
}

// apply folds tx's per-pool value-balance delta into the snapshot,
// matching the hypothetical-balance formula the turnstile gate evaluates
// before committing to a transaction.
func (b PoolBalances) apply(tx *txmodel.Transaction) PoolBalances {
	b.Sapling -= tx.ValueBalanceSapling()
	b.Orchard -= tx.ValueBalanceOrchard()
	b.Sprout += tx.ValueBalanceSprout()
	return b
}

func (b PoolBalances) anyNegative() bool {
	return b.Sprout < 0 || b.Sapling < 0 || b.Orchard < 0
}

// Assembler is the Template Assembler (C5): selects mempool transactions
// under capacity and dependency constraints and hands the result to the
// Coinbase Builder. Grounded on decred-dcrd's mining.go txPriorityQueue
// selection loop (see other_examples/btcsuite-btcd__mining.go) for the
// gate ordering and the priority-to-fee comparator switch, and on
// node/mining/cpuminer/cpuminer.go for the injected-logger convention.
type Assembler struct {
	policy Policy
	cp     *chainparams.Params
	log    *zap.Logger
}

// NewAssembler returns an Assembler with policy clamped to consensus
// ceilings. cp is used only to gate the turnstile check to when ZIP 209 is
// actually active (Canopy activation height); a nil cp is treated
// conservatively, as if ZIP 209 were always active, since the assembler
// then has no way to tell.
func NewAssembler(policy Policy, cp *chainparams.Params, log *zap.Logger) *Assembler {
	policy.Clamp()
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{policy: policy, cp: cp, log: log}
}

// turnstileActive reports whether the turnstile (ZIP 209) non-negativity
// check should be enforced at height: only once ZIP 209/Canopy has
// activated and the running pool-balance snapshot this Assembler
// maintains is itself meaningful. A nil cp means the upgrade state is
// unknown, so the check defaults to enforced rather than silently
// skipped.
func (a *Assembler) turnstileActive(height int32) bool {
	if a.cp == nil {
		return true
	}
	return a.cp.IsActive(chainparams.UpgradeCanopy, height)
}

// AssembleTemplate runs the six-step selection algorithm and returns a
// fully populated BlockTemplate, or an error if coinbase construction
// fails. coinbaseFn builds the coinbase transaction once total fees are
// known, deferring its construction until after selection completes so
// its value reflects the actual fee total (the "dummy coinbase" resolved
// per this repo's design notes: never reserve a placeholder, always build
// last).
func (a *Assembler) AssembleTemplate(
	view *coinview.View,
	mpView *mempool.View,
	height int32,
	coinbaseFn func(fees int64) (*txmodel.Transaction, error),
) (*txmodel.BlockTemplate, error) {
	template := &txmodel.BlockTemplate{Height: height}

	if mpView == nil || mpView.Len() == 0 {
		return a.finalizeEmpty(template, coinbaseFn)
	}

	useByFee := a.policy.BlockPrioritySize == 0
	var less mempool.LessFunc = mempool.ByPriority
	if useByFee {
		less = mempool.ByFee
	}
	pq := mempool.NewPriorityQueue(less)
	for _, e := range mpView.Roots() {
		pq.PushEntry(e)
	}

	cumSize := coinbaseSizeReserve
	cumSigOps := coinbaseSigOpsReserve
	var fees int64
	var balances PoolBalances

	for {
		entry := pq.PopEntry()
		if entry == nil {
			break
		}

		tx := entry.Tx

		if cumSize+entry.Size >= a.policy.BlockMaxSize {
			continue
		}
		if cumSigOps+entry.SigOps >= a.policy.MaxSigOps {
			continue
		}

		if !useByFee && (cumSize+entry.Size >= a.policy.BlockPrioritySize || !allowFree(entry.Priority)) {
			useByFee = true
			pq.SetLessFunc(mempool.ByFee)
			pq.PushEntry(entry)
			continue
		}

		// Free-tx gate (§4.5.3 bullet 3): once the block has grown past
		// BlockMinSize, a low-fee-rate transaction is only admitted if
		// its priority is high enough to bypass the floor.
		if useByFee && cumSize+entry.Size >= a.policy.BlockMinSize &&
			entry.FeeRate < minRelayFeeRate && !allowFree(entry.Priority) {
			continue
		}

		if !view.HasAllInputs(tx) {
			continue
		}

		if !contextualCheckInputs(view, tx, height) {
			continue
		}

		extraSigOps := p2shSigOps(view, tx)
		if cumSigOps+entry.SigOps+extraSigOps >= a.policy.MaxSigOps {
			continue
		}

		if a.turnstileActive(height) {
			hypothetical := balances.apply(tx)
			if hypothetical.anyNegative() {
				a.log.Debug("turnstile gate rejected transaction",
					zap.String("txid", entry.TxHash.String()))
				continue
			}
			balances = hypothetical
		}

		view.Apply(tx, height)
		fees += entry.Fee
		cumSize += entry.Size
		cumSigOps += entry.SigOps + extraSigOps

		template.Transactions = append(template.Transactions, tx)
		template.Fees = append(template.Fees, entry.Fee)
		template.SigOpCounts = append(template.SigOpCounts, entry.SigOps+extraSigOps)

		for _, unlocked := range mpView.Select(entry.TxHash) {
			pq.PushEntry(unlocked)
		}
	}

	coinbase, err := coinbaseFn(fees)
	if err != nil {
		return nil, err
	}

	template.Transactions = append([]*txmodel.Transaction{coinbase}, template.Transactions...)
	template.Fees = append([]int64{-fees}, template.Fees...)
	template.SigOpCounts = append([]int{coinbase.LegacySigOps()}, template.SigOpCounts...)

	return template, nil
}

// finalizeEmpty builds a coinbase-only template: the empty-mempool
// boundary case named in §8.
func (a *Assembler) finalizeEmpty(template *txmodel.BlockTemplate, coinbaseFn func(fees int64) (*txmodel.Transaction, error)) (*txmodel.BlockTemplate, error) {
	coinbase, err := coinbaseFn(0)
	if err != nil {
		return nil, err
	}
	template.Transactions = []*txmodel.Transaction{coinbase}
	template.Fees = []int64{0}
	template.SigOpCounts = []int{coinbase.LegacySigOps()}
	return template, nil
}

// AssembleFromPrecomputedCoinbase implements the precomputed-coinbase path
// (§4.5.4): the mempool scan is skipped entirely and the resulting
// template contains only the supplied coinbase with zero fees.
func (a *Assembler) AssembleFromPrecomputedCoinbase(height int32, coinbase *txmodel.Transaction) *txmodel.BlockTemplate {
	return &txmodel.BlockTemplate{
		Height:       height,
		Transactions: []*txmodel.Transaction{coinbase},
		Fees:         []int64{0},
		SigOpCounts:  []int{coinbase.LegacySigOps()},
	}
}
