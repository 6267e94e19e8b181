// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainparams is the Consensus Parameter Oracle (C1): a pure,
// stateless function surface answering upgrade-activation and subsidy
// questions for a given height. It performs no I/O and holds no mutable
// state, grounded on the teacher's per-network chaincfg.Params struct
// pattern (a data table selected once at startup, not a service).
package chainparams

import "github.com/zecnode/blocktemplate/txmodel"

// Upgrade identifies a Zcash network upgrade by its activation-ordered
// position.
type Upgrade int

const (
	UpgradeSprout Upgrade = iota
	UpgradeOverwinter
	UpgradeSapling
	UpgradeBlossom
	UpgradeHeartwood
	UpgradeCanopy
	UpgradeNU5
	numUpgrades
)

// branchIDs maps each upgrade to its consensus branch id, the value mixed
// into replay-protected signature hashes.
var branchIDs = [numUpgrades]uint32{
	UpgradeSprout:     0x00000000,
	UpgradeOverwinter: 0x5ba81b19,
	UpgradeSapling:    0x76b809bb,
	UpgradeBlossom:    0x2bb40e60,
	UpgradeHeartwood:  0xf5b9230b,
	UpgradeCanopy:     0xe9ff75a6,
	UpgradeNU5:        0xc2d6d0b4,
}

// Params is one network's full set of consensus parameters: activation
// heights, subsidy schedule, funding streams, and Equihash parameters.
// Mainnet, testnet, and regtest each get one Params value; none of its
// methods perform I/O.
type Params struct {
	Name string

	// ActivationHeight[u] is the height at which upgrade u activates.
	// A value of -1 means "never activates" (used by regtest profiles
	// that disable later upgrades to keep test vectors small).
	ActivationHeight [numUpgrades]int32

	// SubsidyHalvingInterval is the number of blocks between halvings.
	SubsidyHalvingInterval int32

	// SlowStartInterval is the height at which the subsidy first
	// reaches its full value (Zcash phases subsidy in linearly over
	// the "slow start" window).
	SlowStartInterval int32

	// MaxSubsidy is the block subsidy once slow start completes and
	// before the first halving.
	MaxSubsidy int64

	// FoundersRewardLastHeight is the last height that pays a founders'
	// reward (pre-Canopy). Heights after Canopy activation pay funding
	// streams instead (§4.4 step 2-3 dispatch).
	FoundersRewardLastHeight int32

	// FoundersRewardAddresses is the height-bracketed set of founders'
	// reward scripts; index chosen by height / addressChangeInterval.
	FoundersRewardAddresses [][]byte
	AddressChangeInterval   int32

	// FundingStreams, indexed by upgrade, lists the post-Canopy funding
	// stream recipients and their share of the subsidy (each stream's own
	// Numerator/Denominator), active over [StartHeight, EndHeight).
	FundingStreams map[Upgrade][]FundingStream

	EquihashN, EquihashK uint32

	// FutureTimestampSoftForkHeight is the height at which the
	// future-timestamp soft fork (capping block time at
	// medianTimePast+MaxFutureBlockTimeMTP) activates. -1 disables it.
	FutureTimestampSoftForkHeight int32

	// MinDifficultyBlocksAfterHeight enables the testnet
	// minimum-difficulty exception from this height onward. -1
	// disables it (mainnet).
	MinDifficultyBlocksAfterHeight int32

	// PowLimitBits is the compact-form easiest target the network allows,
	// returned as the testnet minimum-difficulty exception's target and
	// as the fallback when the chain tip carries no target of its own
	// (see Finalizer.nextWorkRequired).
	PowLimitBits uint32

	// PowTargetSpacing is the intended number of seconds between blocks,
	// used by the testnet minimum-difficulty exception's "more than six
	// block intervals elapsed" test.
	PowTargetSpacing int64
}

// FundingStream is one recipient of a Canopy-era funding stream: a share of
// the subsidy (Numerator/Denominator) paid to Recipient for every height in
// [StartHeight, EndHeight).
type FundingStream struct {
	Recipient   txmodel.MinerAddress
	Numerator   int64
	Denominator int64
	StartHeight int32
	EndHeight   int32
}

// FundingStreamDenominator is ZIP 207's fixed denominator (20, i.e. the
// funding streams collectively claim a configurable fraction in twentieths
// of the subsidy).
const FundingStreamDenominator = 20

// MaxFutureBlockTimeMTP bounds how far a block's timestamp may exceed the
// median time past once the future-timestamp soft fork is active.
const MaxFutureBlockTimeMTP = 90 * 60

// IsActive reports whether u has activated by height.
func (p *Params) IsActive(u Upgrade, height int32) bool {
	h := p.ActivationHeight[u]
	return h >= 0 && height >= h
}

// IsActivationHeight reports whether height is exactly the activation
// boundary for u, distinct from "active at or after" — the Header
// Finalizer's Heartwood-activation-height-only branch (§4.5 step 5) needs
// this distinction.
func (p *Params) IsActivationHeight(u Upgrade, height int32) bool {
	return p.ActivationHeight[u] == height
}

// BranchID returns the consensus branch id active at height.
func (p *Params) BranchID(height int32) uint32 {
	id := branchIDs[UpgradeSprout]
	for u := Upgrade(0); u < numUpgrades; u++ {
		if p.IsActive(u, height) {
			id = branchIDs[u]
		}
	}
	return id
}

// LastFoundersRewardHeight returns the last height paying a founders'
// reward.
func (p *Params) LastFoundersRewardHeight() int32 {
	return p.FoundersRewardLastHeight
}

// FutureTimestampSoftForkActive reports whether the future-timestamp soft
// fork is active at height.
func (p *Params) FutureTimestampSoftForkActive(height int32) bool {
	return p.FutureTimestampSoftForkHeight >= 0 && height >= p.FutureTimestampSoftForkHeight
}

// MinDifficultyBlocksAfter reports whether the testnet minimum-difficulty
// exception applies at height.
func (p *Params) MinDifficultyBlocksAfter(height int32) bool {
	return p.MinDifficultyBlocksAfterHeight >= 0 && height >= p.MinDifficultyBlocksAfterHeight
}

// AllowMinDifficultyAt reports whether, at height with the given previous
// block's time and the new block's candidate time, the testnet
// minimum-difficulty exception fires: more than six block intervals have
// elapsed since the previous block.
func (p *Params) AllowMinDifficultyAt(height int32, prevBlockTime, newTime uint32) bool {
	if !p.MinDifficultyBlocksAfter(height) {
		return false
	}
	return int64(newTime) > int64(prevBlockTime)+6*p.PowTargetSpacing
}

// EquihashParams returns the (n, k) Equihash parameterization for the
// network.
func (p *Params) EquihashParams() (n, k uint32) {
	return p.EquihashN, p.EquihashK
}

// BlockSubsidy returns the block subsidy at height: zero before slow start
// begins, linearly ramping during the slow-start window, MaxSubsidy at the
// end of slow start, then halved every SubsidyHalvingInterval blocks.
func (p *Params) BlockSubsidy(height int32) int64 {
	if height <= 0 {
		return 0
	}
	if height < p.SlowStartInterval {
		// Zcash's slow start ramps subsidy from 1/(interval/2) to
		// MaxSubsidy linearly over the first half of the interval,
		// then holds at MaxSubsidy for the second half.
		half := p.SlowStartInterval / 2
		if height <= half {
			return p.MaxSubsidy * int64(height) / int64(half)
		}
		return p.MaxSubsidy
	}

	halvings := (height - p.SlowStartInterval) / p.SubsidyHalvingInterval
	if halvings >= 64 {
		return 0
	}
	return p.MaxSubsidy >> uint(halvings)
}

// FoundersReward returns 20% of the subsidy at height, the pre-Canopy
// founders' reward share (§4.4 step 3).
func (p *Params) FoundersReward(subsidy int64) int64 {
	return subsidy / 5
}

// FoundersRewardScript returns the height-bracketed founders' reward
// scriptPubKey for height.
func (p *Params) FoundersRewardScript(height int32) []byte {
	if len(p.FoundersRewardAddresses) == 0 {
		return nil
	}
	idx := int(height / p.AddressChangeInterval)
	if idx >= len(p.FoundersRewardAddresses) {
		idx = len(p.FoundersRewardAddresses) - 1
	}
	return p.FoundersRewardAddresses[idx]
}

// FundingStreamElements returns the funding-stream payouts active at
// height, each computed as subsidy * Numerator / Denominator (§4.4 step 2).
// Returns nil when Canopy is not active or no stream is active at height.
func (p *Params) FundingStreamElements(height int32, subsidy int64) []txmodel.FundingStreamElement {
	if !p.IsActive(UpgradeCanopy, height) {
		return nil
	}

	var elements []txmodel.FundingStreamElement
	for _, streams := range p.FundingStreams {
		for _, s := range streams {
			if height < s.StartHeight || height >= s.EndHeight {
				continue
			}
			amount := subsidy * s.Numerator / s.Denominator
			elements = append(elements, txmodel.FundingStreamElement{
				Recipient: s.Recipient,
				Amount:    amount,
			})
		}
	}
	return elements
}
