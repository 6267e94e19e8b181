// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainparams

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsActive(t *testing.T) {
	p := &MainNetParams
	require.False(t, p.IsActive(UpgradeSapling, 419_199))
	require.True(t, p.IsActive(UpgradeSapling, 419_200))
	require.True(t, p.IsActive(UpgradeSapling, 1_000_000))
}

func TestBranchIDMonotonic(t *testing.T) {
	p := &MainNetParams
	require.Equal(t, branchIDs[UpgradeSprout], p.BranchID(0))
	require.Equal(t, branchIDs[UpgradeOverwinter], p.BranchID(347_500))
	require.Equal(t, branchIDs[UpgradeCanopy], p.BranchID(1_046_400))
}

func TestBlockSubsidySlowStart(t *testing.T) {
	p := &MainNetParams
	require.Equal(t, int64(0), p.BlockSubsidy(0))
	require.Less(t, p.BlockSubsidy(5_000), p.MaxSubsidy)
	require.Equal(t, p.MaxSubsidy, p.BlockSubsidy(p.SlowStartInterval))
}

func TestBlockSubsidyHalving(t *testing.T) {
	p := &MainNetParams
	first := p.BlockSubsidy(p.SlowStartInterval)
	afterOneHalving := p.BlockSubsidy(p.SlowStartInterval + p.SubsidyHalvingInterval)
	require.Equal(t, first/2, afterOneHalving)
}

func TestFundingStreamElementsRequiresCanopy(t *testing.T) {
	p := &RegressionNetParams
	require.Nil(t, p.FundingStreamElements(0, p.BlockSubsidy(0)))
	// Canopy activates at height 1 on regtest; with no streams configured
	// the result is still nil, but it must not be gated on "not active".
	require.NotPanics(t, func() { p.FundingStreamElements(1, p.BlockSubsidy(1)) })
}

func TestMinDifficultyBlocksAfter(t *testing.T) {
	tn := &TestNetParams
	require.False(t, tn.MinDifficultyBlocksAfter(299_187))
	require.True(t, tn.MinDifficultyBlocksAfter(299_188))

	mn := &MainNetParams
	require.False(t, mn.MinDifficultyBlocksAfter(10_000_000))
}

func TestAllowMinDifficultyAt(t *testing.T) {
	tn := &TestNetParams
	height := tn.MinDifficultyBlocksAfterHeight + 1
	require.False(t, tn.AllowMinDifficultyAt(height, 1000, 1000+uint32(6*tn.PowTargetSpacing)))
	require.True(t, tn.AllowMinDifficultyAt(height, 1000, 1000+uint32(6*tn.PowTargetSpacing)+1))

	mn := &MainNetParams
	require.False(t, mn.AllowMinDifficultyAt(10_000_000, 1000, 1_000_000_000), "mainnet never allows the exception")
}

func TestMainnetFundingStreamsSumToTwentyPercent(t *testing.T) {
	streams := MainNetParams.FundingStreams[UpgradeCanopy]
	require.Len(t, streams, 3)

	var numerator int64
	for _, s := range streams {
		require.Equal(t, int64(100), s.Denominator)
		numerator += s.Numerator
	}
	require.Equal(t, int64(20), numerator, "founders' reward was 20%; ZIP 214 streams should match the share they replace")
}

func TestEquihashParamsPerNetwork(t *testing.T) {
	n, k := RegressionNetParams.EquihashParams()
	require.Equal(t, uint32(48), n)
	require.Equal(t, uint32(5), k)
}
