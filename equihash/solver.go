// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package equihash provides the pluggable proof-of-work solver strategies
// the Mining Driver calls into. Equihash itself — the Wagner's-algorithm
// generalized birthday search over a BLAKE2b-personalized hash state — is
// treated as a black-box external collaborator: this package defines the
// interface the Mining Driver programs against and two strategy names
// ("default", "tromp"), grounded on the teacher's pluggable-solver mention
// in node/mining/cpuminer/cpuminer.go's worker-controller pattern (which
// spawns one of several interchangeable strategies per worker) but
// without vendoring either solver's actual search code, since a from-
// scratch Equihash implementation is outside a block-template assembler's
// scope.
package equihash

import "context"

// Params is the (N, K) Equihash parameterization, e.g. (200, 9) for
// Zcash mainnet/testnet or a smaller pair for regtest.
type Params struct {
	N, K uint32
}

// Solver searches for a valid Equihash solution given a personalized hash
// state seeded from a block header's pre-nonce bytes plus the current
// nonce, calling found for every candidate solution it discovers until
// found returns true (false means: keep searching) or ctx is cancelled.
type Solver interface {
	// Solve runs the search, invoking found(solution) for each
	// candidate. Returns when found returns true (a caller-accepted
	// solution), ctx is cancelled, or the solver exhausts its
	// strategy-specific search space.
	Solve(ctx context.Context, params Params, header []byte, nonce [32]byte, found func(solution []byte) bool) error
}

// Strategy names the two pluggable implementations named in scope: the
// reference bucket-sort algorithm ("default") and the faster
// cache-optimized variant popularized by tromp/equihash ("tromp").
type Strategy string

const (
	StrategyDefault Strategy = "default"
	StrategyTromp   Strategy = "tromp"
)

// New returns the Solver registered under name, or an error if name is
// unrecognized.
func New(name Strategy) (Solver, error) {
	switch name {
	case StrategyDefault, "":
		return &referenceSolver{}, nil
	case StrategyTromp:
		return &trompSolver{}, nil
	default:
		return nil, errUnknownStrategy(name)
	}
}

type errUnknownStrategy Strategy

func (e errUnknownStrategy) Error() string {
	return "equihash: unknown solver strategy " + string(e)
}
