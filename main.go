// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/zecnode/blocktemplate/coinview"
	"github.com/zecnode/blocktemplate/cpuminer"
	"github.com/zecnode/blocktemplate/logging"
	"github.com/zecnode/blocktemplate/mempool"
	"github.com/zecnode/blocktemplate/mining"
	"github.com/zecnode/blocktemplate/txmodel"
	"github.com/zecnode/blocktemplate/types/chainhash"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	if err := zecnodeMain(); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}
}

// zecnodeMain is the real entry point, split out from main so deferred
// cleanup still runs on every return path (os.Exit in main would skip it).
func zecnodeMain() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{
		Dir:        cfg.LogDir,
		Filename:   "zecnode.log",
		Level:      cfg.DebugLevel,
		MaxSizeMB:  50,
		MaxBackups: 5,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer log.Info("shutdown complete")

	log.Info("starting zecnode", zap.String("network", cfg.chainParams.Name))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := interruptListener(log.Named("signal"))
	go func() {
		<-done
		cancel()
	}()

	chain := newChainState()

	if !cfg.Miner.Generate {
		<-ctx.Done()
		return nil
	}

	miner, err := cpuminer.New(cpuminer.Config{
		Params:         cfg.chainParams,
		Policy:         cfg.policy(),
		MinerAddr:      cfg.minerAddr,
		SolverStrategy: cfg.solverStrategy,
		NumWorkers:     cfg.numWorkers(runtime.NumCPU()),
		ChainTip:       chain.Tip,
		MempoolView: func() *mempool.View {
			return mempool.NewView(nil)
		},
		CoinView: func() *coinview.View {
			return coinview.New(chain)
		},
		ProcessBlock: chain.AcceptBlock,
	}, log.Named("cpuminer"))
	if err != nil {
		return err
	}

	miner.Start(ctx)
	<-ctx.Done()
	miner.Stop()

	return nil
}

// chainState is a minimal in-memory stand-in for the real chain/UTXO
// database this daemon would otherwise connect to; it exists so the
// binary is runnable standalone (e.g. under regtest) without a live node
// attached. It satisfies coinview.BaseLookup and tracks the tip the
// Mining Driver extends.
type chainState struct {
	mu     sync.Mutex
	height int32
	tip    chainhash.Hash
}

func newChainState() *chainState {
	return &chainState{}
}

func (c *chainState) GetCoin(txmodel.OutPoint) (*txmodel.Coin, bool) { return nil, false }
func (c *chainState) SaplingAnchor() chainhash.Hash                 { return chainhash.Hash{} }
func (c *chainState) OrchardAnchor() chainhash.Hash                 { return chainhash.Hash{} }
func (c *chainState) HistoryRoot(uint32) chainhash.Hash             { return chainhash.Hash{} }

func (c *chainState) Tip() mining.ChainTip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mining.ChainTip{Hash: c.tip, Height: c.height}
}

// AcceptBlock is the daemon's stand-in for consensus validation + chain
// extension: it always accepts and advances the in-memory tip, since this
// repo's scope ends at template assembly (§1); a real node's block
// acceptance path is an external collaborator.
func (c *chainState) AcceptBlock(template *txmodel.BlockTemplate) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tip = template.Header.BlockHash()
	c.height = template.Height
	return true, nil
}
