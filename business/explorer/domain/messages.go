package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of cosmos.tx.v1beta1.TxRaw / Tx, TxBody and google.protobuf.Any.
const (
	txBodyField      protowire.Number = 1
	bodyMessageField protowire.Number = 1
	anyTypeURLField  protowire.Number = 1
)

// DescribeMessages renders the message summary of an encoded transaction:
// the short type of the first message plus "+N" for the rest, e.g.
// "MsgSend +1". payload may be a TxRaw, a Tx or a bare TxBody. Undecodable
// payloads yield "".
func DescribeMessages(payload []byte) string {
	types := MessageTypes(payload)
	if len(types) == 0 {
		return ""
	}
	out := ShortTypeName(types[0])
	if len(types) > 1 {
		out += " +" + strconv.Itoa(len(types)-1)
	}
	return out
}

// MessageTypes returns the type URLs of the messages in payload, or nil.
func MessageTypes(payload []byte) []string {
	if len(payload) == 0 {
		return nil
	}
	if body, ok := lengthDelimitedField(payload, txBodyField); ok {
		if types, ok := bodyMessageTypes(body); ok {
			return types
		}
	}
	if types, ok := bodyMessageTypes(payload); ok {
		return types
	}
	return nil
}

// ShortTypeName strips the package from a type URL:
// "/cosmos.bank.v1beta1.MsgSend" becomes "MsgSend".
func ShortTypeName(typeURL string) string {
	if i := strings.LastIndexByte(typeURL, '.'); i >= 0 {
		return typeURL[i+1:]
	}
	return strings.TrimPrefix(typeURL, "/")
}

func bodyMessageTypes(body []byte) ([]string, bool) {
	var types []string
	complete := walkFields(body, func(num protowire.Number, typ protowire.Type, value []byte) bool {
		if num != bodyMessageField {
			return true
		}
		if typ != protowire.BytesType {
			return false
		}
		url, ok := lengthDelimitedField(value, anyTypeURLField)
		if !ok || !validTypeURL(url) {
			return false
		}
		types = append(types, string(url))
		return true
	})
	if !complete || len(types) == 0 {
		return nil, false
	}
	return types, true
}

func validTypeURL(b []byte) bool {
	return len(b) > 0 && utf8.Valid(b) && strings.ContainsRune(string(b), '.')
}

// lengthDelimitedField returns the first occurrence of field num in msg.
func lengthDelimitedField(msg []byte, num protowire.Number) ([]byte, bool) {
	var out []byte
	found := false
	walkFields(msg, func(n protowire.Number, typ protowire.Type, value []byte) bool {
		if n != num {
			return true
		}
		if typ != protowire.BytesType {
			return false
		}
		out, found = value, true
		return false
	})
	return out, found
}

// walkFields visits each field of msg until fn returns false. For bytes
// fields value is the payload; for other types it is the raw encoding. It
// reports whether msg was consumed to the end.
func walkFields(msg []byte, fn func(protowire.Number, protowire.Type, []byte) bool) bool {
	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return false
		}
		msg = msg[n:]

		var value []byte
		if typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(msg)
			if m < 0 {
				return false
			}
			value, n = v, m
		} else {
			n = protowire.ConsumeFieldValue(num, typ, msg)
			if n < 0 {
				return false
			}
			value = msg[:n]
		}
		msg = msg[n:]

		if !fn(num, typ, value) {
			return false
		}
	}
	return true
}
