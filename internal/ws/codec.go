package ws

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrUnknownCodec = errors.New("unknown encoding")

// Codec selects how outbound messages are framed for a client.
type Codec int32

const (
	CodecJSON Codec = iota
	CodecMsgpack
)

func (c Codec) String() string {
	switch c {
	case CodecMsgpack:
		return "msgpack"
	default:
		return "json"
	}
}

// ParseCodec maps a client-supplied encoding name to a Codec. Empty means JSON.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return CodecJSON, nil
	case "msgpack":
		return CodecMsgpack, nil
	default:
		return CodecJSON, fmt.Errorf("%q: %w", name, ErrUnknownCodec)
	}
}

// FrameType returns the websocket frame type used for this codec.
func (c Codec) FrameType() int {
	if c == CodecMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// wireMessage is the msgpack envelope.
type wireMessage struct {
	Type string `msgpack:"type"`
	Data any    `msgpack:"data,omitempty"`
}

// Encode serializes a message for the wire.
func (c Codec) Encode(msg Message) ([]byte, error) {
	if c != CodecMsgpack {
		return json.Marshal(msg)
	}

	data := msg.payload
	if data == nil && len(msg.Data) > 0 {
		var generic any
		if err := json.Unmarshal(msg.Data, &generic); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		data = generic
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(wireMessage{Type: msg.Type, Data: data}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeMessage parses an inbound frame. Binary frames are msgpack, text
// frames JSON; either way Data ends up as JSON for the handlers.
func DecodeMessage(raw []byte, binary bool) (Message, error) {
	if !binary {
		var msg Message
		err := json.Unmarshal(raw, &msg)
		return msg, err
	}

	var wire wireMessage
	if err := msgpack.Unmarshal(raw, &wire); err != nil {
		return Message{}, err
	}
	msg := Message{Type: wire.Type}
	if wire.Data != nil {
		data, err := json.Marshal(wire.Data)
		if err != nil {
			return Message{}, fmt.Errorf("re-encode payload: %w", err)
		}
		msg.Data = data
	}
	return msg, nil
}
