// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zecnode/blocktemplate/chainparams"
	"github.com/zecnode/blocktemplate/txmodel"
)

type fakeProofParams struct {
	released bool
}

func (f *fakeProofParams) CreateSaplingOutput(addr [43]byte, value int64, ovk [32]byte) ([]byte, error) {
	return []byte("sapling-output"), nil
}

func (f *fakeProofParams) CreateOrchardDummyAction() ([]byte, error) {
	return []byte("orchard-dummy"), nil
}

func (f *fakeProofParams) BindSaplingSignature(valueBalance int64, sighash [32]byte) ([64]byte, error) {
	var sig [64]byte
	sig[0] = 0xaa
	return sig, nil
}

func TestBuildCoinbaseTransparentPreCanopy(t *testing.T) {
	cp := chainparams.RegressionNetParams
	cp.ActivationHeight[chainparams.UpgradeCanopy] = 1_000_000 // push Canopy out of reach
	cp.FoundersRewardLastHeight = 500

	minerAddr := txmodel.NewTransparentAddress([]byte{0x01, 0x02})
	tx, err := BuildCoinbase(&cp, 100, 5000, minerAddr, nil)
	require.NoError(t, err)
	require.True(t, tx.IsCoinBase())

	subsidy := cp.BlockSubsidy(100)
	founders := cp.FoundersReward(subsidy)
	wantMinerReward := subsidy - founders + 5000

	require.Equal(t, wantMinerReward, tx.TxOut[0].Value)
	require.Equal(t, founders, tx.TxOut[1].Value)
}

func TestBuildCoinbaseNoFoundersRewardPastLastHeight(t *testing.T) {
	cp := chainparams.RegressionNetParams
	cp.ActivationHeight[chainparams.UpgradeCanopy] = 1_000_000
	cp.FoundersRewardLastHeight = 10

	minerAddr := txmodel.NewTransparentAddress([]byte{0x01})
	tx, err := BuildCoinbase(&cp, 100, 0, minerAddr, nil)
	require.NoError(t, err)
	require.Len(t, tx.TxOut, 1)
	require.Equal(t, cp.BlockSubsidy(100), tx.TxOut[0].Value)
}

func TestBuildCoinbaseSaplingMinerRequiresProofContext(t *testing.T) {
	cp := chainparams.RegressionNetParams
	minerAddr := txmodel.NewSaplingAddress(txmodel.SaplingPaymentAddress{})
	_, err := BuildCoinbase(&cp, 100, 0, minerAddr, nil)
	require.Error(t, err)
}

func TestBuildCoinbaseSaplingMinerWithProofContext(t *testing.T) {
	cp := chainparams.RegressionNetParams
	params := &fakeProofParams{}
	proof := NewProofContext(params, func() { params.released = true })

	minerAddr := txmodel.NewSaplingAddress(txmodel.SaplingPaymentAddress{})
	tx, err := BuildCoinbase(&cp, 5, 1000, minerAddr, proof)
	require.NoError(t, err)
	require.NotNil(t, tx.Sapling)
	require.Len(t, tx.Sapling.Outputs, 1)
	require.True(t, params.released, "proof context must be released on every exit path")
}

func TestBuildCoinbaseScriptSigWithinLimit(t *testing.T) {
	cp := chainparams.RegressionNetParams
	minerAddr := txmodel.NewTransparentAddress([]byte{0x01})
	tx, err := BuildCoinbase(&cp, 500_000, 0, minerAddr, nil)
	require.NoError(t, err)
	require.LessOrEqual(t, len(tx.TxIn[0].SignatureScript), 100)
}

func TestBuildCoinbaseCanopyFundingStreamSplit(t *testing.T) {
	cp := chainparams.RegressionNetParams
	cp.FundingStreams = map[chainparams.Upgrade][]chainparams.FundingStream{
		chainparams.UpgradeCanopy: {
			{
				Recipient:   txmodel.NewTransparentAddress([]byte{0x02}),
				Numerator:   7,
				Denominator: chainparams.FundingStreamDenominator,
				StartHeight: 0,
				EndHeight:   1000,
			},
			{
				Recipient:   txmodel.NewTransparentAddress([]byte{0x03}),
				Numerator:   5,
				Denominator: chainparams.FundingStreamDenominator,
				StartHeight: 0,
				EndHeight:   1000,
			},
		},
	}
	// cp.ActivationHeight[UpgradeCanopy] == 1 on regtest, so height 10 is
	// well past activation.
	minerAddr := txmodel.NewTransparentAddress([]byte{0x01})
	tx, err := BuildCoinbase(&cp, 10, 5000, minerAddr, nil)
	require.NoError(t, err)

	subsidy := cp.BlockSubsidy(10)
	streamECC := subsidy * 7 / chainparams.FundingStreamDenominator
	streamZF := subsidy * 5 / chainparams.FundingStreamDenominator
	wantMinerReward := subsidy - streamECC - streamZF + 5000

	require.Len(t, tx.TxOut, 3, "miner output plus two funding-stream outputs")
	require.Equal(t, wantMinerReward, tx.TxOut[0].Value)
	require.Equal(t, streamECC, tx.TxOut[1].Value)
	require.Equal(t, streamZF, tx.TxOut[2].Value)
}

func TestBuildCoinbaseOrchardMinerIncludesMandatoryDummyAction(t *testing.T) {
	cp := chainparams.RegressionNetParams
	params := &fakeProofParams{}
	proof := NewProofContext(params, func() { params.released = true })

	minerAddr := txmodel.NewOrchardAddress(txmodel.OrchardRawAddress{})
	tx, err := BuildCoinbase(&cp, 5, 1000, minerAddr, proof)
	require.NoError(t, err)
	require.NotNil(t, tx.Orchard)
	require.Len(t, tx.Orchard.Actions, 2, "miner action plus the mandatory dummy action")
	require.Equal(t, []byte("orchard-dummy"), tx.Orchard.Actions[1].EncCiphertext)
	require.True(t, params.released, "proof context must be released on every exit path")
}
