// Copyright (c) 2013, 2014 The btcsuite developers
// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zecutil holds small value types shared across the block-template
// assembly engine that do not belong to any single component.
package zecutil

import (
	"errors"
	"math"
	"strconv"
)

// AmountUnit describes a method of converting an Amount to something other
// than the base unit of ZEC. The value of the AmountUnit is the exponent
// component of the decadic multiple to convert from an amount in ZEC to an
// amount counted in units.
type AmountUnit int

// These constants define the units used when describing a ZEC monetary
// amount.
const (
	AmountMegaZEC  AmountUnit = 6
	AmountKiloZEC  AmountUnit = 3
	AmountZEC      AmountUnit = 0
	AmountMilliZEC AmountUnit = -3
	AmountMicroZEC AmountUnit = -6
	AmountZatoshi  AmountUnit = -8
)

// String returns the unit as a string. For recognized units, the SI prefix
// is used, or "Zatoshi" for the base unit. Unrecognized units format as
// "1eN ZEC".
func (u AmountUnit) String() string {
	switch u {
	case AmountMegaZEC:
		return "MZEC"
	case AmountKiloZEC:
		return "kZEC"
	case AmountZEC:
		return "ZEC"
	case AmountMilliZEC:
		return "mZEC"
	case AmountMicroZEC:
		return "μZEC"
	case AmountZatoshi:
		return "Zatoshi"
	default:
		return "1e" + strconv.FormatInt(int64(u), 10) + " ZEC"
	}
}

// ZatoshiPerZEC is the number of zatoshi in one ZEC.
const ZatoshiPerZEC = 1e8

// MaxZatoshi is the maximum number of zatoshi that will ever exist.
const MaxZatoshi = 21e6 * ZatoshiPerZEC

// Amount represents the base ZEC monetary unit (zatoshi). A single Amount
// is equal to 1e-8 ZEC, matching the Bitcoin-derived satoshi convention.
type Amount int64

// round converts a floating point value, which may or may not be
// representable as an integer, to the nearest Amount.
func round(f float64) Amount {
	if f < 0 {
		return Amount(f - 0.5)
	}
	return Amount(f + 0.5)
}

// NewAmount creates an Amount from a floating point value expressed in ZEC.
// NewAmount errors if f is NaN or +-Infinity.
func NewAmount(f float64) (Amount, error) {
	switch {
	case math.IsNaN(f):
		fallthrough
	case math.IsInf(f, 1):
		fallthrough
	case math.IsInf(f, -1):
		return 0, errors.New("invalid zcash amount")
	}

	return round(f * ZatoshiPerZEC), nil
}

// ToUnit converts a monetary amount counted in zatoshi to a floating point
// value representing an amount in the given unit.
func (a Amount) ToUnit(u AmountUnit) float64 {
	return float64(a) / math.Pow10(int(u+8))
}

// ToZEC is the equivalent of calling ToUnit with AmountZEC.
func (a Amount) ToZEC() float64 {
	return a.ToUnit(AmountZEC)
}

// Format formats a monetary amount counted in zatoshi as a string for the
// given unit, appending an SI-notation label.
func (a Amount) Format(u AmountUnit) string {
	units := " " + u.String()
	return strconv.FormatFloat(a.ToUnit(u), 'f', -int(u+8), 64) + units
}

// String is the equivalent of calling Format with AmountZEC.
func (a Amount) String() string {
	return a.Format(AmountZEC)
}

// MulF64 multiplies an Amount by a floating point value. Useful for
// computing proportional shares of a funding stream or a miner's fee.
func (a Amount) MulF64(f float64) Amount {
	return round(float64(a) * f)
}
