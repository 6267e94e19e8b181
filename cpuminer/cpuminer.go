// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cpuminer is the Mining Driver (C7): repeatedly asks the Template
// Assembler for a fresh block template and searches for a valid Equihash
// solution until one is found, the tip changes, or the nonce space is
// exhausted. Grounded on node/mining/cpuminer/cpuminer.go's CPUMiner/
// speedMonitor/miningWorkerController layout, adapted per this repo's
// cancellation redesign: a single mutex-guarded cancelToken shared by
// every worker instead of a quit channel per worker.
package cpuminer

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zecnode/blocktemplate/chainparams"
	"github.com/zecnode/blocktemplate/coinview"
	"github.com/zecnode/blocktemplate/equihash"
	"github.com/zecnode/blocktemplate/mempool"
	"github.com/zecnode/blocktemplate/mining"
	"github.com/zecnode/blocktemplate/txmodel"
	"github.com/zecnode/blocktemplate/types/pow"
)

var errAlreadyMining = errors.New("cpuminer: cannot generate discrete blocks while continuous mining is running")

// mempoolStalenessTimeout is how long a worker tolerates an unchanged
// template before forcing a rebuild even absent a tip change (§4.7 step
// 5's "more than 60s have elapsed" condition).
const mempoolStalenessTimeout = 60 * time.Second

// hashesPerCycle is how many candidate solutions solveBlock examines between
// cancellation/staleness checks.
const hashesPerCycle = 1024

// Config wires the Mining Driver to its collaborators. None of these are
// constructed by cpuminer itself — they are the host daemon's chain
// state, mempool, and coin view, borrowed for the duration of one
// assembly.
type Config struct {
	Params         *chainparams.Params
	Policy         mining.Policy
	MinerAddr      txmodel.MinerAddress
	SolverStrategy equihash.Strategy
	NumWorkers     int

	// RequirePeers mirrors mining_requires_peers: when true, workers
	// busy-wait while ConnectedCount reports zero or IsCurrent reports
	// false (§4.7 step 2).
	RequirePeers   bool
	ConnectedCount func() int32
	IsCurrent      func() bool

	// ChainTip, MempoolView, and CoinView are called fresh at the start
	// of every template assembly, so they must be cheap and
	// goroutine-safe.
	ChainTip    func() mining.ChainTip
	MempoolView func() *mempool.View
	CoinView    func() *coinview.View

	// ProofContext is invoked once per coinbase construction; it may
	// return nil when the miner address is Transparent.
	ProofContext func() *mining.ProofContext

	// ProcessBlock is called with a template whose header carries a
	// solution satisfying the target; it returns whether the block was
	// accepted onto the active chain.
	ProcessBlock func(*txmodel.BlockTemplate) (bool, error)
}

// CPUMiner runs Config.NumWorkers independent goroutines, each
// repeatedly assembling a template and searching for an Equihash
// solution.
type CPUMiner struct {
	sync.Mutex

	cfg       Config
	assembler *mining.Assembler
	finalizer *mining.Finalizer
	solver    equihash.Solver
	log       *zap.Logger

	cancel cancelToken

	started        bool
	discreteMining bool
	numWorkers     int

	wg               sync.WaitGroup
	workerWg         sync.WaitGroup
	quit             chan struct{}
	updateNumWorkers chan struct{}
	speedMonitorQuit chan struct{}

	queryHashesPerSec chan float64
	updateHashes      chan uint64
}

// New constructs a CPUMiner from cfg, defaulting NumWorkers to 1 and the
// solver strategy to "default" if unset.
func New(cfg Config, log *zap.Logger) (*CPUMiner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = 1
	}

	solver, err := equihash.New(cfg.SolverStrategy)
	if err != nil {
		return nil, err
	}

	return &CPUMiner{
		cfg:               cfg,
		assembler:         mining.NewAssembler(cfg.Policy, cfg.Params, log.Named("assembler")),
		finalizer:         mining.NewFinalizer(cfg.Params, cfg.Policy),
		solver:            solver,
		log:               log,
		numWorkers:        cfg.NumWorkers,
		updateNumWorkers:  make(chan struct{}),
		queryHashesPerSec: make(chan float64),
		updateHashes:      make(chan uint64),
	}, nil
}

// speedMonitor aggregates per-worker hash-rate reports into a running
// average, answered by HashesPerSecond.
func (m *CPUMiner) speedMonitor() {
	defer m.wg.Done()

	var hashesPerSec float64
	var totalHashes uint64
	ticker := time.NewTicker(time.Second * 10)
	defer ticker.Stop()

	m.log.Debug("mining speed monitor started")
	for {
		select {
		case numHashes := <-m.updateHashes:
			totalHashes += numHashes
		case <-ticker.C:
			curHashesPerSec := float64(totalHashes) / 10
			if hashesPerSec == 0 {
				hashesPerSec = curHashesPerSec
			}
			hashesPerSec = (hashesPerSec + curHashesPerSec) / 2
			totalHashes = 0
			if hashesPerSec != 0 {
				m.log.Debug("hash speed", zap.Float64("hashes_per_second", hashesPerSec))
			}
		case m.queryHashesPerSec <- hashesPerSec:
		case <-m.speedMonitorQuit:
			return
		}
	}
}

// submitBlock hands an Equihash-solved template to the host's
// ProcessBlock collaborator.
func (m *CPUMiner) submitBlock(template *txmodel.BlockTemplate) bool {
	accepted, err := m.cfg.ProcessBlock(template)
	if err != nil {
		m.log.Error("block rejected", zap.Error(err))
		return false
	}
	if accepted {
		m.log.Info("block accepted", zap.Int32("height", template.Height))
	}
	return accepted
}

// solveBlock runs the Equihash solver against template, submitting and
// returning true on success. It returns false (without error) when the
// solver is cancelled, the nonce space is exhausted, or the worker should
// restart for any other §4.7 step-5 reason.
func (m *CPUMiner) solveBlock(ctx context.Context, template *txmodel.BlockTemplate, startedAt time.Time, worker int) (bool, error) {
	target := pow.CompactToBig(template.Header.Bits)

	header := template.Header.PreImage()
	n, k := m.cfg.Params.EquihashParams()
	params := equihash.Params{N: n, K: k}

	var hashesCompleted uint64
	defer func() {
		select {
		case m.updateHashes <- hashesCompleted:
		default:
		}
	}()

	accepted := false
	err := m.solver.Solve(ctx, params, header, template.Header.Nonce, func(solution []byte) bool {
		hashesCompleted++
		template.Header.Solution = solution

		blockHash := template.Header.BlockHash()
		if pow.HashToBig(&blockHash).Cmp(target) > 0 {
			if hashesCompleted%hashesPerCycle == 0 {
				if m.shouldRestart(startedAt) {
					return true // stop the solver; restart the outer loop
				}
			}
			return false // keep searching
		}

		accepted = m.submitBlock(template)
		return true
	})
	if err != nil {
		return false, nil // context cancellation is a normal restart signal
	}
	return accepted, nil
}

// shouldRestart implements the per-cycle checkpoint of §4.7 step 5: the
// cancellation flag, peer availability, and the mempool-staleness
// timeout.
func (m *CPUMiner) shouldRestart(templateStartedAt time.Time) bool {
	if m.cancel.IsCancelled() {
		m.cancel.Clear()
		return true
	}
	if m.cfg.RequirePeers && m.cfg.ConnectedCount != nil && m.cfg.ConnectedCount() == 0 {
		return true
	}
	if time.Since(templateStartedAt) > mempoolStalenessTimeout {
		return true
	}
	return false
}

// NotifyNewTip raises the cancellation flag, the subscription hook the
// host's "new best tip" signal calls.
func (m *CPUMiner) NotifyNewTip() {
	m.cancel.Cancel()
}

// generateBlocks is a single worker's outer loop (§4.7 steps 1-5).
func (m *CPUMiner) generateBlocks(ctx context.Context, quit chan struct{}, worker int) {
	defer m.workerWg.Done()
	m.log.Debug("starting worker", zap.Int("worker", worker))

	if m.cfg.MinerAddr.Kind == 0 && m.cfg.MinerAddr.Script == nil && !m.cfg.MinerAddr.IsShielded() {
		m.log.Error("no miner address configured")
		return
	}

out:
	for {
		select {
		case <-quit:
			break out
		default:
		}

		if m.cfg.RequirePeers {
			for (m.cfg.ConnectedCount != nil && m.cfg.ConnectedCount() == 0) ||
				(m.cfg.IsCurrent != nil && !m.cfg.IsCurrent()) {
				select {
				case <-quit:
					break out
				case <-time.After(time.Second):
				}
			}
		}

		tip := m.cfg.ChainTip()
		height := tip.Height
		proof := (*mining.ProofContext)(nil)
		if m.cfg.ProofContext != nil {
			proof = m.cfg.ProofContext()
		}

		template, err := m.assembler.AssembleTemplate(
			m.cfg.CoinView(), m.cfg.MempoolView(), height+1,
			func(fees int64) (*txmodel.Transaction, error) {
				return mining.BuildCoinbase(m.cfg.Params, height+1, fees, m.cfg.MinerAddr, proof)
			})
		if err != nil {
			m.log.Error("template assembly failed", zap.Error(err))
			select {
			case <-quit:
				break out
			case <-time.After(time.Second):
				continue
			}
		}

		if err := m.finalizer.Finalize(template, tip, uint32(time.Now().Unix())); err != nil {
			m.log.Error("header finalization failed", zap.Error(err))
			continue
		}
		m.finalizer.IncrementExtraNonce(template, tip, tip.Hash)

		startedAt := time.Now()
		workerCtx, cancel := context.WithCancel(ctx)
		go func() {
			select {
			case <-quit:
				cancel()
			case <-workerCtx.Done():
			}
		}()

		_, _ = m.solveBlock(workerCtx, template, startedAt, worker)
		cancel()

		select {
		case <-quit:
			break out
		default:
		}
	}
}

// miningWorkerController starts/stops worker goroutines in response to
// SetNumWorkers, mirroring the teacher's controller loop.
func (m *CPUMiner) miningWorkerController(ctx context.Context) {
	defer m.wg.Done()

	var runningWorkers []chan struct{}

	launchWorker := func() {
		quit := make(chan struct{})
		runningWorkers = append(runningWorkers, quit)
		m.workerWg.Add(1)
		go m.generateBlocks(ctx, quit, len(runningWorkers)-1)
	}

	m.Lock()
	numWorkers := m.numWorkers
	m.Unlock()
	for i := 0; i < numWorkers; i++ {
		launchWorker()
	}

	for {
		select {
		case <-m.updateNumWorkers:
			m.Lock()
			desired := m.numWorkers
			m.Unlock()

			for len(runningWorkers) > desired {
				close(runningWorkers[len(runningWorkers)-1])
				runningWorkers = runningWorkers[:len(runningWorkers)-1]
			}
			for len(runningWorkers) < desired {
				launchWorker()
			}

		case <-m.quit:
			for _, quit := range runningWorkers {
				close(quit)
			}
			m.workerWg.Wait()
			return
		}
	}
}

// Start begins mining with the configured number of workers. Safe to
// call once; subsequent calls while already started are no-ops.
func (m *CPUMiner) Start(ctx context.Context) {
	m.Lock()
	defer m.Unlock()
	if m.started {
		return
	}

	m.quit = make(chan struct{})
	m.speedMonitorQuit = make(chan struct{})
	m.wg.Add(2)
	go m.speedMonitor()
	go m.miningWorkerController(ctx)

	m.started = true
}

// Stop halts every worker and waits for them to exit.
func (m *CPUMiner) Stop() {
	m.Lock()
	if !m.started {
		m.Unlock()
		return
	}
	close(m.quit)
	close(m.speedMonitorQuit)
	m.Unlock()
	m.wg.Wait()

	m.Lock()
	m.started = false
	m.Unlock()
}

// IsMining reports whether the miner is currently running.
func (m *CPUMiner) IsMining() bool {
	m.Lock()
	defer m.Unlock()
	return m.started
}

// HashesPerSecond returns the current rolling hash-rate estimate.
func (m *CPUMiner) HashesPerSecond() float64 {
	m.Lock()
	defer m.Unlock()
	if !m.started {
		return 0
	}
	return <-m.queryHashesPerSec
}

// SetNumWorkers resizes the worker pool to n, clamped to at least zero.
func (m *CPUMiner) SetNumWorkers(n int) {
	if n < 0 {
		n = 0
	}
	m.Lock()
	m.numWorkers = n
	started := m.started
	m.Unlock()

	if started {
		m.updateNumWorkers <- struct{}{}
	}
}

// NumWorkers returns the configured worker count.
func (m *CPUMiner) NumWorkers() int {
	m.Lock()
	defer m.Unlock()
	return m.numWorkers
}

// GenerateNBlocks mines exactly n blocks on a single worker, used by
// regtest/testnet operator tooling rather than continuous mining. It
// refuses to run concurrently with Start's worker pool.
func (m *CPUMiner) GenerateNBlocks(ctx context.Context, n uint32) ([]*txmodel.BlockTemplate, error) {
	m.Lock()
	if m.started {
		m.Unlock()
		return nil, errAlreadyMining
	}
	m.discreteMining = true
	m.Unlock()

	defer func() {
		m.Lock()
		m.discreteMining = false
		m.Unlock()
	}()

	var mined []*txmodel.BlockTemplate
	for uint32(len(mined)) < n {
		tip := m.cfg.ChainTip()
		proof := (*mining.ProofContext)(nil)
		if m.cfg.ProofContext != nil {
			proof = m.cfg.ProofContext()
		}

		template, err := m.assembler.AssembleTemplate(
			m.cfg.CoinView(), m.cfg.MempoolView(), tip.Height+1,
			func(fees int64) (*txmodel.Transaction, error) {
				return mining.BuildCoinbase(m.cfg.Params, tip.Height+1, fees, m.cfg.MinerAddr, proof)
			})
		if err != nil {
			return mined, err
		}
		if err := m.finalizer.Finalize(template, tip, uint32(time.Now().Unix())); err != nil {
			return mined, err
		}
		m.finalizer.IncrementExtraNonce(template, tip, tip.Hash)

		accepted, err := m.solveBlock(ctx, template, time.Now(), 0)
		if err != nil {
			return mined, err
		}
		if accepted {
			mined = append(mined, template)
		}

		select {
		case <-ctx.Done():
			return mined, ctx.Err()
		default:
		}
	}
	return mined, nil
}
