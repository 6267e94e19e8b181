// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zecnode/blocktemplate/chainparams"
	"github.com/zecnode/blocktemplate/txmodel"
	"github.com/zecnode/blocktemplate/types/chainhash"
)

// newTestTemplate builds a coinbase-only template whose sole output pays
// exactly cp's subsidy at height, so the value-equation check Finalize
// now runs never trips on a test fixture's dummy payout.
func newTestTemplate(cp *chainparams.Params, height int32) *txmodel.BlockTemplate {
	coinbase := txmodel.NewCoinbaseTx(4)
	coinbase.TxOut = []txmodel.TxOut{{Value: cp.BlockSubsidy(height), PkScript: []byte{0x01}}}
	return &txmodel.BlockTemplate{
		Height:       height,
		Transactions: []*txmodel.Transaction{coinbase},
		Fees:         []int64{0},
	}
}

func TestFinalizeSetsPrevBlockAndMerkleRoot(t *testing.T) {
	cp := chainparams.RegressionNetParams
	f := NewFinalizer(&cp, DefaultPolicy())

	template := newTestTemplate(&cp, 5)
	tip := ChainTip{Hash: chainhash.Hash{0x09}, MedianTimePast: 1_600_000_000}

	err := f.Finalize(template, tip, 1_600_000_100)
	require.NoError(t, err)
	require.Equal(t, tip.Hash, template.Header.PrevBlock)
	require.NotEqual(t, chainhash.Hash{}, template.Header.MerkleRoot)
	require.Greater(t, template.Header.Time, tip.MedianTimePast)
}

func TestBlockCommitmentsPreHeartwoodUsesSaplingAnchor(t *testing.T) {
	cp := chainparams.MainNetParams
	f := NewFinalizer(&cp, DefaultPolicy())

	template := newTestTemplate(&cp, 1)
	tip := ChainTip{SaplingAnchor: chainhash.Hash{0x07}}

	got := f.blockCommitments(template, tip)
	require.Equal(t, tip.SaplingAnchor, got)
}

func TestBlockCommitmentsHeartwoodActivationHeightIsZero(t *testing.T) {
	cp := chainparams.MainNetParams
	f := NewFinalizer(&cp, DefaultPolicy())

	template := newTestTemplate(&cp, cp.ActivationHeight[chainparams.UpgradeHeartwood])
	got := f.blockCommitments(template, ChainTip{SaplingAnchor: chainhash.Hash{0x07}})
	require.Equal(t, chainhash.Hash{}, got)
}

func TestIncrementExtraNonceRewritesCoinbaseAndMerkleRoot(t *testing.T) {
	cp := chainparams.RegressionNetParams
	f := NewFinalizer(&cp, DefaultPolicy())

	template := newTestTemplate(&cp, 5)
	tip := ChainTip{Hash: chainhash.Hash{0x01}}
	require.NoError(t, f.Finalize(template, tip, 1_600_000_100))

	before := template.Header.MerkleRoot
	f.IncrementExtraNonce(template, tip, tip.Hash)
	require.Equal(t, uint64(1), template.ExtraNonce)
	require.NotEqual(t, before, template.Header.MerkleRoot)

	f.IncrementExtraNonce(template, tip, chainhash.Hash{0x02})
	require.Equal(t, uint64(1), template.ExtraNonce, "tip change must reset the extra-nonce counter")
}

func TestFinalizeRejectsCoinbaseValueMismatch(t *testing.T) {
	cp := chainparams.RegressionNetParams
	f := NewFinalizer(&cp, DefaultPolicy())

	template := newTestTemplate(&cp, 5)
	template.Coinbase().TxOut[0].Value++ // one more than subsidy+fees

	tip := ChainTip{Hash: chainhash.Hash{0x09}, MedianTimePast: 1_600_000_000}
	err := f.Finalize(template, tip, 1_600_000_100)
	require.ErrorIs(t, err, ErrTemplateInvalid)
}

func TestNextWorkRequiredPassesThroughTipBitsOnMainnet(t *testing.T) {
	cp := chainparams.MainNetParams // MinDifficultyBlocksAfterHeight == -1: exception never fires
	f := NewFinalizer(&cp, DefaultPolicy())

	tip := ChainTip{Time: 1_600_000_000, Bits: 0x1d00ffff}
	require.Equal(t, tip.Bits, f.nextWorkRequired(tip, 1_600_000_100, 500_000))
}

func TestNextWorkRequiredFallsBackToPowLimitWithNoTipTarget(t *testing.T) {
	cp := chainparams.MainNetParams
	f := NewFinalizer(&cp, DefaultPolicy())

	tip := ChainTip{Time: 1_600_000_000}
	require.Equal(t, cp.PowLimitBits, f.nextWorkRequired(tip, 1_600_000_100, 500_000))
}

func TestNextWorkRequiredTestnetMinDifficultyFiresAfterSixSpacings(t *testing.T) {
	cp := chainparams.TestNetParams
	f := NewFinalizer(&cp, DefaultPolicy())

	height := cp.MinDifficultyBlocksAfterHeight + 10
	tip := ChainTip{Time: 1_600_000_000, Bits: 0x1d00ffff}
	newTime := tip.Time + uint32(6*cp.PowTargetSpacing) + 1

	require.Equal(t, cp.PowLimitBits, f.nextWorkRequired(tip, newTime, height))
}

func TestNextWorkRequiredTestnetMinDifficultyDoesNotFireWithinSpacing(t *testing.T) {
	cp := chainparams.TestNetParams
	f := NewFinalizer(&cp, DefaultPolicy())

	height := cp.MinDifficultyBlocksAfterHeight + 10
	tip := ChainTip{Time: 1_600_000_000, Bits: 0x1d00ffff}
	newTime := tip.Time + uint32(6*cp.PowTargetSpacing) - 1

	require.Equal(t, tip.Bits, f.nextWorkRequired(tip, newTime, height))
}

func TestNextWorkRequiredTestnetMinDifficultyDoesNotFireBeforeActivationHeight(t *testing.T) {
	cp := chainparams.TestNetParams
	f := NewFinalizer(&cp, DefaultPolicy())

	height := cp.MinDifficultyBlocksAfterHeight - 1
	tip := ChainTip{Time: 1_600_000_000, Bits: 0x1d00ffff}
	newTime := tip.Time + uint32(6*cp.PowTargetSpacing) + 1000

	require.Equal(t, tip.Bits, f.nextWorkRequired(tip, newTime, height), "exception must not apply before MinDifficultyBlocksAfterHeight")
}

func TestFinalizeRejectsDependencyOutOfOrder(t *testing.T) {
	cp := chainparams.RegressionNetParams
	f := NewFinalizer(&cp, DefaultPolicy())

	template := newTestTemplate(&cp, 5)
	child := &txmodel.Transaction{
		TxIn: []txmodel.TxIn{{PreviousOutPoint: txmodel.OutPoint{Hash: template.Coinbase().TxHash() /* placeholder, replaced below */}}},
	}
	// child spends a transaction placed after it in the template.
	laterTx := &txmodel.Transaction{TxOut: []txmodel.TxOut{{Value: 1, PkScript: []byte{0x01}}}}
	child.TxIn[0].PreviousOutPoint.Hash = laterTx.TxHash()
	template.Transactions = append(template.Transactions, child, laterTx)
	template.Fees = append(template.Fees, 0, 0)

	tip := ChainTip{Hash: chainhash.Hash{0x09}, MedianTimePast: 1_600_000_000}
	err := f.Finalize(template, tip, 1_600_000_100)
	require.ErrorIs(t, err, ErrTemplateInvalid)
}
