package cometbft

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fd1az/cosvm-explorer/business/blockchain/domain"
	"github.com/fd1az/cosvm-explorer/internal/apperror"
)

const (
	queryNewBlock = "tm.event='NewBlock'"
	queryTx       = "tm.event='Tx'"
)

type rpcRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method"`
	ID      int            `json:"id"`
	Params  map[string]any `json:"params"`
}

func subscribeRequest(id int, query string) rpcRequest {
	return rpcRequest{
		JSONRPC: "2.0",
		Method:  "subscribe",
		ID:      id,
		Params:  map[string]any{"query": query},
	}
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

type rpcResponse struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type eventResult struct {
	Query string `json:"query"`
	Data  struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	} `json:"data"`
	Events map[string][]string `json:"events"`
}

type newBlockValue struct {
	Block struct {
		Header struct {
			ChainID string    `json:"chain_id"`
			Height  string    `json:"height"`
			Time    time.Time `json:"time"`
			AppHash string    `json:"app_hash"`
		} `json:"header"`
		Data struct {
			Txs []string `json:"txs"`
		} `json:"data"`
	} `json:"block"`
}

type txResult struct {
	Height string `json:"height"`
	Tx     string `json:"tx"`
	Result struct {
		Code uint32 `json:"code"`
		Data string `json:"data"`
		Log  string `json:"log"`
	} `json:"result"`
}

type txValue struct {
	TxResult txResult `json:"TxResult"`
}

// decodeFrame parses one websocket frame. It returns (nil, nil) for frames
// that carry no event, such as subscription acknowledgements.
func decodeFrame(frame []byte) (*domain.Event, error) {
	var resp rpcResponse
	if err := json.Unmarshal(frame, &resp); err != nil {
		return nil, malformed("frame", err)
	}
	if resp.Error != nil {
		return nil, apperror.New(apperror.CodeNodeSubscribeFailed,
			apperror.WithContext(fmt.Sprintf("%d %s %s", resp.Error.Code, resp.Error.Message, resp.Error.Data)))
	}

	var res eventResult
	if len(resp.Result) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(resp.Result, &res); err != nil {
		return nil, malformed("result", err)
	}

	switch {
	case res.Query == queryNewBlock || res.Data.Type == "tendermint/event/NewBlock":
		b, err := decodeNewBlock(res.Data.Value)
		if err != nil {
			return nil, err
		}
		return &domain.Event{Block: b}, nil
	case res.Query == queryTx || res.Data.Type == "tendermint/event/Tx":
		tx, err := decodeTx(res.Data.Value, res.Events)
		if err != nil {
			return nil, err
		}
		return &domain.Event{Tx: tx}, nil
	default:
		return nil, nil
	}
}

func decodeNewBlock(raw json.RawMessage) (*domain.NewBlock, error) {
	var v newBlockValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, malformed("NewBlock", err)
	}
	h := v.Block.Header

	height, err := strconv.ParseInt(h.Height, 10, 64)
	if err != nil {
		return nil, malformed("NewBlock height", err)
	}
	appHash, err := hex.DecodeString(h.AppHash)
	if err != nil {
		return nil, malformed("NewBlock app_hash", err)
	}

	txs := make([][]byte, 0, len(v.Block.Data.Txs))
	for _, enc := range v.Block.Data.Txs {
		tx, err := base64.StdEncoding.DecodeString(enc)
		if err != nil {
			return nil, malformed("NewBlock tx", err)
		}
		txs = append(txs, tx)
	}

	return &domain.NewBlock{
		Height:  height,
		Time:    h.Time,
		AppHash: appHash,
		ChainID: h.ChainID,
		Txs:     txs,
	}, nil
}

func decodeTx(raw json.RawMessage, events map[string][]string) (*domain.TxEvent, error) {
	var v txValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, malformed("Tx", err)
	}
	r := v.TxResult

	height, err := strconv.ParseInt(r.Height, 10, 64)
	if err != nil {
		return nil, malformed("Tx height", err)
	}
	tx, err := base64.StdEncoding.DecodeString(r.Tx)
	if err != nil {
		return nil, malformed("Tx bytes", err)
	}
	var data []byte
	if r.Result.Data != "" {
		if data, err = base64.StdEncoding.DecodeString(r.Result.Data); err != nil {
			return nil, malformed("Tx result data", err)
		}
	}

	hash, err := txHash(tx, events)
	if err != nil {
		return nil, err
	}

	return &domain.TxEvent{
		Height: height,
		Hash:   hash,
		Code:   r.Result.Code,
		Data:   data,
		Tx:     tx,
		Log:    r.Result.Log,
	}, nil
}

// txHash prefers the node-reported tx.hash and falls back to sha256 of the
// raw transaction, which is how CometBFT derives it.
func txHash(tx []byte, events map[string][]string) ([]byte, error) {
	if hs := events["tx.hash"]; len(hs) > 0 && hs[0] != "" {
		h, err := hex.DecodeString(strings.TrimPrefix(hs[0], "0x"))
		if err != nil {
			return nil, malformed("tx.hash", err)
		}
		return h, nil
	}
	sum := sha256.Sum256(tx)
	return sum[:], nil
}

func malformed(what string, err error) error {
	return apperror.New(apperror.CodeMalformedEvent, apperror.WithContext(what), apperror.WithCause(err))
}
