// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import "github.com/pkg/errors"

// Sentinel errors the Template Assembler and Coinbase Builder return,
// wrapped with github.com/pkg/errors.Wrap at each call site so a caller
// can errors.Cause() back to one of these while still getting a
// stack-annotated message, matching the teacher's error-handling style
// throughout node/mining.
var (
	// ErrNoMinerAddress is returned, at any height, when the miner's
	// payout address is missing or unusable: a Transparent address with
	// no script, or an address of unrecognized kind.
	ErrNoMinerAddress = errors.New("mining: no miner address supplied")

	// ErrTemplateInvalid is returned when a fully assembled template
	// fails its own internal consistency checks (coinbase value
	// equation, size ceiling, sigop ceiling).
	ErrTemplateInvalid = errors.New("mining: assembled template failed validation")

	// ErrProofConstructionFailed is returned when the Coinbase Builder
	// cannot construct a Sapling output or the Orchard actions for a
	// shielded coinbase (binding-signature failures use
	// ErrBindingSigFailed).
	ErrProofConstructionFailed = errors.New("mining: shielded proof construction failed")

	// ErrBindingSigFailed is returned when a shielded bundle's binding
	// signature cannot be produced from its proof context.
	ErrBindingSigFailed = errors.New("mining: binding signature construction failed")

	// ErrStaleBlock names the case of the chain tip advancing out from
	// under an in-progress template assembly or mining attempt. No
	// function in this module returns it; the Mining Driver abandons a
	// stale attempt through its cancellation token instead.
	ErrStaleBlock = errors.New("mining: chain tip changed, template is stale")

	// ErrTurnstileViolation names the case of a transaction that would
	// make a shielded pool's cumulative value balance negative (ZIP 209).
	// No function in this module returns it; the Template Assembler skips
	// such a transaction instead.
	ErrTurnstileViolation = errors.New("mining: turnstile invariant violated")
)
