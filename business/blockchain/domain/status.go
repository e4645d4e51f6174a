package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// NodeStatus is the subset of /status and /validators the dashboard shows.
type NodeStatus struct {
	Network           string
	LatestBlockHeight int64
	LatestBlockTime   time.Time
	CatchingUp        bool
	ValidatorsTotal   int
}

var weiPerGwei = decimal.New(1, 9)

// GasPrice is the suggested EVM gas price.
type GasPrice struct {
	Wei       *big.Int
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice from wei.
func NewGasPrice(wei *big.Int, at time.Time) *GasPrice {
	return &GasPrice{Wei: new(big.Int).Set(wei), Timestamp: at}
}

// Gwei returns the price in gwei.
func (g *GasPrice) Gwei() decimal.Decimal {
	return decimal.NewFromBigInt(g.Wei, 0).Div(weiPerGwei)
}

// String formats the price for the gas tile, e.g. "500 Gwei".
func (g *GasPrice) String() string {
	return g.Gwei().Round(2).String() + " Gwei"
}
