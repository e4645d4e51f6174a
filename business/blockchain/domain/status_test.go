package domain

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGasPrice_Gwei(t *testing.T) {
	wei, _ := new(big.Int).SetString("500000000000", 10)
	p := NewGasPrice(wei, time.Unix(0, 0))

	assert.Equal(t, "500", p.Gwei().String())
	assert.Equal(t, "500 Gwei", p.String())
}

func TestGasPrice_Fractional(t *testing.T) {
	p := NewGasPrice(big.NewInt(1_234_567_890), time.Unix(0, 0))
	assert.Equal(t, "1.23 Gwei", p.String())
}

func TestGasPrice_CopiesInput(t *testing.T) {
	wei := big.NewInt(10)
	p := NewGasPrice(wei, time.Unix(0, 0))
	wei.SetInt64(99)
	assert.Equal(t, int64(10), p.Wei.Int64())
}
