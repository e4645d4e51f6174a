package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/encoding/protowire"
)

func anyMsg(typeURL string) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, typeURL)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{0x0a, 0x01, 'x'})
	return b
}

func txBody(typeURLs ...string) []byte {
	var b []byte
	for _, u := range typeURLs {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, anyMsg(u))
	}
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, "memo")
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)
	return b
}

func txRaw(body []byte) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, body)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{0x12, 0x00})
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, make([]byte, 64))
	return b
}

func TestDescribeMessages(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    string
	}{
		{"tx raw single", txRaw(txBody("/cosmos.bank.v1beta1.MsgSend")), "MsgSend"},
		{"tx raw multi", txRaw(txBody("/cosmos.staking.v1beta1.MsgDelegate", "/cosmos.bank.v1beta1.MsgSend", "/ethermint.evm.v1.MsgEthereumTx")), "MsgDelegate +2"},
		{"bare body", txBody("/cosmos.gov.v1.MsgVote"), "MsgVote"},
		{"no messages", txRaw(txBody()), ""},
		{"empty", nil, ""},
		{"garbage", []byte{0xff, 0xff, 0xff}, ""},
		{"truncated", txRaw(txBody("/cosmos.bank.v1beta1.MsgSend"))[:5], ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeMessages(tt.payload))
		})
	}
}

func TestShortTypeName(t *testing.T) {
	assert.Equal(t, "MsgSend", ShortTypeName("/cosmos.bank.v1beta1.MsgSend"))
	assert.Equal(t, "Custom", ShortTypeName("/Custom"))
}
