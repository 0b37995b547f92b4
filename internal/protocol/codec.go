package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Errors surfaced by frame decoding. Callers drop the frame silently for
// all of them; ErrPolluted additionally deserves a log line.
var (
	ErrMalformed = errors.New("malformed frame")
	ErrNoType    = errors.New("frame missing type tag")
	ErrPolluted  = errors.New("prototype-pollution key in payload")
)

// pollutionKeys are rejected at the top level of any inbound data object.
var pollutionKeys = [...]string{"__proto__", "constructor"}

// Frame is a decoded inbound envelope. Data stays raw until the dispatcher
// knows the concrete payload type.
type Frame struct {
	Type   string
	binary bool
	data   []byte
}

type binaryEnvelope struct {
	Type string             `msgpack:"type"`
	Data msgpack.RawMessage `msgpack:"data"`
}

type jsonEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// DecodeBinary parses a MessagePack frame.
func DecodeBinary(raw []byte) (*Frame, error) {
	var env binaryEnvelope
	if err := msgpack.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if env.Type == "" {
		return nil, ErrNoType
	}
	f := &Frame{Type: env.Type, binary: true, data: env.Data}
	if err := f.checkPollution(); err != nil {
		return nil, err
	}
	return f, nil
}

// DecodeJSON parses a JSON text frame. Accepted inbound only.
func DecodeJSON(raw []byte) (*Frame, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if env.Type == "" {
		return nil, ErrNoType
	}
	f := &Frame{Type: env.Type, data: env.Data}
	if err := f.checkPollution(); err != nil {
		return nil, err
	}
	return f, nil
}

// checkPollution rejects frames whose data object carries a
// prototype-pollution sentinel at the top level.
func (f *Frame) checkPollution() error {
	if len(f.data) == 0 {
		return nil
	}
	keys := map[string]any{}
	if f.binary {
		if err := msgpack.Unmarshal(f.data, &keys); err != nil {
			return nil // non-object payloads carry no keys to poison
		}
	} else {
		if err := json.Unmarshal(f.data, &keys); err != nil {
			return nil
		}
	}
	for _, bad := range pollutionKeys {
		if _, ok := keys[bad]; ok {
			return ErrPolluted
		}
	}
	return nil
}

// Payload decodes the frame's data object into out.
func (f *Frame) Payload(out any) error {
	if len(f.data) == 0 {
		return nil
	}
	if f.binary {
		if err := msgpack.Unmarshal(f.data, out); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return nil
	}
	if err := json.Unmarshal(f.data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

type outboundEnvelope struct {
	Type string `msgpack:"type"`
	Data any    `msgpack:"data"`
}

// Encode builds an outbound MessagePack frame.
func Encode(msgType string, data any) ([]byte, error) {
	raw, err := msgpack.Marshal(outboundEnvelope{Type: msgType, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encoding %s frame: %w", msgType, err)
	}
	return raw, nil
}
