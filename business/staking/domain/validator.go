// Package domain contains the core domain types for the staking context.
package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BondStatus is the staking module's validator status.
type BondStatus string

const (
	BondStatusUnspecified BondStatus = "BOND_STATUS_UNSPECIFIED"
	BondStatusUnbonded    BondStatus = "BOND_STATUS_UNBONDED"
	BondStatusUnbonding   BondStatus = "BOND_STATUS_UNBONDING"
	BondStatusBonded      BondStatus = "BOND_STATUS_BONDED"
)

// Label returns the table label for the status.
func (s BondStatus) Label() string {
	switch s {
	case BondStatusBonded:
		return "Active"
	case BondStatusUnbonding:
		return "Unbonding"
	case BondStatusUnbonded:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// Validator is one row of the validator table.
type Validator struct {
	OperatorAddress string
	Moniker         string
	Status          BondStatus
	Jailed          bool
	Tokens          decimal.Decimal // base units
	CommissionRate  decimal.Decimal // fraction, 0.05 = 5%
}

// VotingPower returns tokens scaled down by the chain's display exponent,
// truncated to whole units.
func (v Validator) VotingPower(exponent int32) decimal.Decimal {
	return v.Tokens.Shift(-exponent).Truncate(0)
}

var maxInt64 = decimal.NewFromInt(math.MaxInt64)

// FormatVotingPower renders voting power with thousands separators. Values
// beyond int64 are printed ungrouped.
func (v Validator) FormatVotingPower(exponent int32) string {
	power := v.VotingPower(exponent)
	if power.GreaterThan(maxInt64) {
		return power.String()
	}
	return message.NewPrinter(language.English).Sprintf("%d", power.IntPart())
}

// CommissionPercent renders the commission rate as a percentage, e.g. "5.00%".
func (v Validator) CommissionPercent() string {
	return v.CommissionRate.Shift(2).StringFixed(2) + "%"
}

// ValidatorSet is one page of bonded validators.
type ValidatorSet struct {
	Validators []Validator
	Total      int // across all pages
	FetchedAt  time.Time
}
