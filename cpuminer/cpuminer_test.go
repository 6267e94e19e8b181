// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cpuminer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zecnode/blocktemplate/chainparams"
	"github.com/zecnode/blocktemplate/coinview"
	"github.com/zecnode/blocktemplate/mempool"
	"github.com/zecnode/blocktemplate/mining"
	"github.com/zecnode/blocktemplate/txmodel"
	"github.com/zecnode/blocktemplate/types/chainhash"
)

func TestCancelTokenSetClear(t *testing.T) {
	var c cancelToken
	require.False(t, c.IsCancelled())
	c.Cancel()
	require.True(t, c.IsCancelled())
	c.Clear()
	require.False(t, c.IsCancelled())
}

type fakeCoinLookup struct{}

func (fakeCoinLookup) GetCoin(op txmodel.OutPoint) (*txmodel.Coin, bool) { return nil, false }
func (fakeCoinLookup) SaplingAnchor() chainhash.Hash                    { return chainhash.Hash{} }
func (fakeCoinLookup) OrchardAnchor() chainhash.Hash                    { return chainhash.Hash{} }
func (fakeCoinLookup) HistoryRoot(uint32) chainhash.Hash                { return chainhash.Hash{} }

func newTestMiner(t *testing.T, accepted *int) *CPUMiner {
	t.Helper()
	cp := chainparams.RegressionNetParams
	minerAddr := txmodel.NewTransparentAddress([]byte{0x01})

	m, err := New(Config{
		Params:     &cp,
		Policy:     mining.DefaultPolicy(),
		MinerAddr:  minerAddr,
		NumWorkers: 1,
		ChainTip: func() mining.ChainTip {
			return mining.ChainTip{Height: int32(*accepted), MedianTimePast: 1_600_000_000}
		},
		MempoolView: func() *mempool.View { return nil },
		CoinView: func() *coinview.View {
			return coinview.New(fakeCoinLookup{})
		},
		ProcessBlock: func(_ *txmodel.BlockTemplate) (bool, error) {
			*accepted = *accepted + 1
			return true, nil
		},
	}, nil)
	require.NoError(t, err)
	return m
}

func TestGenerateNBlocksMinesRequestedCount(t *testing.T) {
	accepted := 0
	m := newTestMiner(t, &accepted)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mined, err := m.GenerateNBlocks(ctx, 2)
	require.NoError(t, err)
	require.Len(t, mined, 2)
	require.Equal(t, 2, accepted)
}

func TestGenerateNBlocksRefusesWhileContinuousMiningRuns(t *testing.T) {
	accepted := 0
	m := newTestMiner(t, &accepted)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	_, err := m.GenerateNBlocks(context.Background(), 1)
	require.ErrorIs(t, err, errAlreadyMining)
}

func TestStartStopLifecycle(t *testing.T) {
	accepted := 0
	m := newTestMiner(t, &accepted)

	require.False(t, m.IsMining())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	require.True(t, m.IsMining())

	m.SetNumWorkers(2)
	require.Equal(t, 2, m.NumWorkers())

	m.Stop()
	require.False(t, m.IsMining())
}
