package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBondStatus_Label(t *testing.T) {
	assert.Equal(t, "Active", BondStatusBonded.Label())
	assert.Equal(t, "Unbonding", BondStatusUnbonding.Label())
	assert.Equal(t, "Inactive", BondStatusUnbonded.Label())
	assert.Equal(t, "Unknown", BondStatus("").Label())
}

func TestValidator_VotingPower(t *testing.T) {
	v := Validator{Tokens: decimal.RequireFromString("1234567890000000000000000")}

	assert.True(t, decimal.NewFromInt(1234567).Equal(v.VotingPower(18)))
	assert.Equal(t, "1,234,567", v.FormatVotingPower(18))
	assert.Equal(t, "1,234,567,890,000,000,000", v.FormatVotingPower(6))
	assert.Equal(t, "1234567890000000000000000", v.FormatVotingPower(0))
}

func TestValidator_VotingPowerTruncates(t *testing.T) {
	v := Validator{Tokens: decimal.RequireFromString("1999999")}
	assert.Equal(t, "1", v.FormatVotingPower(6))
	assert.Equal(t, "0", Validator{Tokens: decimal.Zero}.FormatVotingPower(6))
}

func TestValidator_CommissionPercent(t *testing.T) {
	tests := []struct {
		rate string
		want string
	}{
		{"0.050000000000000000", "5.00%"},
		{"0.100000000000000000", "10.00%"},
		{"0.125000000000000000", "12.50%"},
		{"1.000000000000000000", "100.00%"},
		{"0", "0.00%"},
	}
	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			v := Validator{CommissionRate: decimal.RequireFromString(tt.rate)}
			assert.Equal(t, tt.want, v.CommissionPercent())
		})
	}
}
