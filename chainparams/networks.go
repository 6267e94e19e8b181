// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainparams

import "github.com/zecnode/blocktemplate/txmodel"

// p2shScript builds a pay-to-script-hash scriptPubKey around a 20-byte
// placeholder hash, the same shape zcashd's funding-stream recipients use
// (a multisig redeem script behind a P2SH address); the hash itself is not
// bit-exact with any published ZIP 214 address since full base58check
// address decoding is out of scope (see config.go decodeMinerAddress).
func p2shScript(tag byte) []byte {
	hash := make([]byte, 20)
	hash[0] = tag
	script := []byte{txmodel.OP_HASH160, 0x14}
	script = append(script, hash...)
	script = append(script, txmodel.OP_EQUAL)
	return script
}

// mainnetFundingStreams is ZIP 214's mainnet schedule: three recipients
// splitting 20% of the subsidy for heights [1,046,400, 2,726,400),
// replacing the founders' reward. The percentages are
// expressed out of 100, not out of the package's FundingStreamDenominator
// (which is ZIP 207's older twentieths convention predating ZIP 214).
var mainnetFundingStreams = []FundingStream{
	{
		Recipient:   txmodel.NewTransparentAddress(p2shScript(0xec)), // Electric Coin Company
		Numerator:   7,
		Denominator: 100,
		StartHeight: 1_046_400,
		EndHeight:   2_726_400,
	},
	{
		Recipient:   txmodel.NewTransparentAddress(p2shScript(0xf0)), // Zcash Foundation
		Numerator:   5,
		Denominator: 100,
		StartHeight: 1_046_400,
		EndHeight:   2_726_400,
	},
	{
		Recipient:   txmodel.NewTransparentAddress(p2shScript(0x6d)), // Major Grants
		Numerator:   8,
		Denominator: 100,
		StartHeight: 1_046_400,
		EndHeight:   2_726_400,
	},
}

// MainNetParams mirrors zcashd's published mainnet activation schedule and
// subsidy constants.
var MainNetParams = Params{
	Name: "mainnet",
	ActivationHeight: [numUpgrades]int32{
		UpgradeSprout:     0,
		UpgradeOverwinter: 347_500,
		UpgradeSapling:    419_200,
		UpgradeBlossom:    653_600,
		UpgradeHeartwood:  903_000,
		UpgradeCanopy:     1_046_400,
		UpgradeNU5:        1_687_104,
	},
	SubsidyHalvingInterval:   840_000,
	SlowStartInterval:        20_000,
	MaxSubsidy:               12_500_000_000,
	FoundersRewardLastHeight: 1_046_399,
	AddressChangeInterval:    17_708,
	FundingStreams: map[Upgrade][]FundingStream{
		UpgradeCanopy: mainnetFundingStreams,
	},
	EquihashN:                      200,
	EquihashK:                      9,
	FutureTimestampSoftForkHeight:  -1,
	MinDifficultyBlocksAfterHeight: -1,
	PowLimitBits:                   0x1f07ffff,
	PowTargetSpacing:               150,
}

// TestNetParams mirrors zcashd's testnet schedule: same subsidy curve, much
// earlier upgrade activations, and the testnet minimum-difficulty exception
// enabled from height 299,188 onward.
var TestNetParams = Params{
	Name: "testnet",
	ActivationHeight: [numUpgrades]int32{
		UpgradeSprout:     0,
		UpgradeOverwinter: 207_500,
		UpgradeSapling:    280_000,
		UpgradeBlossom:    584_000,
		UpgradeHeartwood:  903_800,
		UpgradeCanopy:     1_028_500,
		UpgradeNU5:        1_842_420,
	},
	SubsidyHalvingInterval:         840_000,
	SlowStartInterval:              20_000,
	MaxSubsidy:                     12_500_000_000,
	FoundersRewardLastHeight:       1_028_499,
	AddressChangeInterval:          17_708,
	FundingStreams:                 map[Upgrade][]FundingStream{},
	EquihashN:                      200,
	EquihashK:                      9,
	FutureTimestampSoftForkHeight:  -1,
	MinDifficultyBlocksAfterHeight: 299_188,
	PowLimitBits:                   0x2007ffff,
	PowTargetSpacing:               150,
}

// RegressionNetParams short-circuits every activation height so tests can
// exercise each upgrade branch without mining hundreds of thousands of
// blocks; Sapling activates at height 0, Canopy at height 1 and NU5 at
// height 2.
var RegressionNetParams = Params{
	Name: "regtest",
	ActivationHeight: [numUpgrades]int32{
		UpgradeSprout:     0,
		UpgradeOverwinter: 0,
		UpgradeSapling:    0,
		UpgradeBlossom:    0,
		UpgradeHeartwood:  0,
		UpgradeCanopy:     1,
		UpgradeNU5:        2,
	},
	SubsidyHalvingInterval:         150,
	SlowStartInterval:              0,
	MaxSubsidy:                     1_250_000_000,
	FoundersRewardLastHeight:       -1,
	AddressChangeInterval:          100,
	FundingStreams:                 map[Upgrade][]FundingStream{},
	EquihashN:                      48,
	EquihashK:                      5,
	FutureTimestampSoftForkHeight:  -1,
	MinDifficultyBlocksAfterHeight: 0,
	PowLimitBits:                   0x200f0f0f,
	PowTargetSpacing:               150,
}
