package cometbft

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/cosvm-explorer/internal/apperror"
)

const newBlockFrame = `{"jsonrpc":"2.0","id":1,"result":{"query":"tm.event='NewBlock'","data":{"type":"tendermint/event/NewBlock","value":{"block":{"header":{"chain_id":"cosvm_1-1","height":"42","time":"2024-01-02T03:04:05.5Z","app_hash":"A1B2"},"data":{"txs":["AQID"]}}}},"events":{"tm.event":["NewBlock"]}}}`

const txFrame = `{"jsonrpc":"2.0","id":2,"result":{"query":"tm.event='Tx'","data":{"type":"tendermint/event/Tx","value":{"TxResult":{"height":"42","index":0,"tx":"AQID","result":{"code":5,"data":"BAU=","log":"out of gas"}}}},"events":{"tx.hash":["DEADBEEF"],"tm.event":["Tx"]}}}`

func TestDecodeFrame_NewBlock(t *testing.T) {
	ev, err := decodeFrame([]byte(newBlockFrame))
	require.NoError(t, err)
	require.NotNil(t, ev)
	require.NotNil(t, ev.Block)
	assert.Nil(t, ev.Tx)

	b := ev.Block
	assert.Equal(t, int64(42), b.Height)
	assert.Equal(t, "cosvm_1-1", b.ChainID)
	assert.Equal(t, []byte{0xA1, 0xB2}, b.AppHash)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 500_000_000, time.UTC), b.Time.UTC())
	assert.Equal(t, [][]byte{{1, 2, 3}}, b.Txs)
}

func TestDecodeFrame_Tx(t *testing.T) {
	ev, err := decodeFrame([]byte(txFrame))
	require.NoError(t, err)
	require.NotNil(t, ev.Tx)

	tx := ev.Tx
	assert.Equal(t, int64(42), tx.Height)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, tx.Hash)
	assert.Equal(t, uint32(5), tx.Code)
	assert.Equal(t, []byte{4, 5}, tx.Data)
	assert.Equal(t, []byte{1, 2, 3}, tx.Tx)
	assert.Equal(t, "out of gas", tx.Log)
}

func TestDecodeFrame_TxHashFallback(t *testing.T) {
	frame := `{"result":{"query":"tm.event='Tx'","data":{"value":{"TxResult":{"height":"7","tx":"AQID","result":{}}}}}}`
	ev, err := decodeFrame([]byte(frame))
	require.NoError(t, err)

	sum := sha256.Sum256([]byte{1, 2, 3})
	assert.Equal(t, hex.EncodeToString(sum[:]), hex.EncodeToString(ev.Tx.Hash))
}

func TestDecodeFrame_Ack(t *testing.T) {
	ev, err := decodeFrame([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestDecodeFrame_Errors(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		code  apperror.Code
	}{
		{"not json", `{"result":`, apperror.CodeMalformedEvent},
		{"rpc error", `{"error":{"code":-32603,"message":"Internal error","data":"max subscriptions"}}`, apperror.CodeNodeSubscribeFailed},
		{"bad height", `{"result":{"query":"tm.event='NewBlock'","data":{"value":{"block":{"header":{"height":"x"}}}}}}`, apperror.CodeMalformedEvent},
		{"bad app hash", `{"result":{"query":"tm.event='NewBlock'","data":{"value":{"block":{"header":{"height":"1","app_hash":"zz"}}}}}}`, apperror.CodeMalformedEvent},
		{"bad tx base64", `{"result":{"query":"tm.event='Tx'","data":{"value":{"TxResult":{"height":"1","tx":"***"}}}}}`, apperror.CodeMalformedEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeFrame([]byte(tt.frame))
			require.Error(t, err)
			assert.Equal(t, tt.code, apperror.GetCode(err))
		})
	}
}
