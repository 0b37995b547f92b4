package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestDecodeBinary_RoundTrip(t *testing.T) {
	raw, err := Encode(MsgInput, InputData{
		MoveDirection: Vec{X: 0.5, Y: -0.5},
		AimAngle:      1.25,
		Shooting:      true,
	})
	require.NoError(t, err)

	frame, err := DecodeBinary(raw)
	require.NoError(t, err)
	assert.Equal(t, MsgInput, frame.Type)

	var in InputData
	require.NoError(t, frame.Payload(&in))
	assert.Equal(t, 0.5, in.MoveDirection.X)
	assert.Equal(t, -0.5, in.MoveDirection.Y)
	assert.Equal(t, 1.25, in.AimAngle)
	assert.True(t, in.Shooting)
}

func TestDecodeJSON_Inbound(t *testing.T) {
	frame, err := DecodeJSON([]byte(`{"type":"auth","data":{"user":"bob","pass":"hunter2"}}`))
	require.NoError(t, err)
	assert.Equal(t, MsgAuth, frame.Type)

	var auth AuthData
	require.NoError(t, frame.Payload(&auth))
	assert.Equal(t, "bob", auth.User)
	assert.Equal(t, "hunter2", auth.Pass)
}

func TestDecode_MissingType(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"data":{}}`))
	assert.ErrorIs(t, err, ErrNoType)

	raw, err := msgpack.Marshal(map[string]any{"data": map[string]any{}})
	require.NoError(t, err)
	_, err = DecodeBinary(raw)
	assert.ErrorIs(t, err, ErrNoType)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"type":`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeBinary([]byte{0xc1}) // reserved msgpack byte
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_PrototypePollution(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"type":"input","data":{"__proto__":{"admin":true}}}`))
	assert.ErrorIs(t, err, ErrPolluted)

	_, err = DecodeJSON([]byte(`{"type":"input","data":{"constructor":{}}}`))
	assert.ErrorIs(t, err, ErrPolluted)

	raw, err := msgpack.Marshal(map[string]any{
		"type": "input",
		"data": map[string]any{"__proto__": map[string]any{}},
	})
	require.NoError(t, err)
	_, err = DecodeBinary(raw)
	assert.ErrorIs(t, err, ErrPolluted)
}

func TestDecode_NestedPollutionKeyAllowed(t *testing.T) {
	// Only the top level of data is screened.
	frame, err := DecodeJSON([]byte(`{"type":"chat","data":{"message":"__proto__"}}`))
	require.NoError(t, err)

	var chat ChatData
	require.NoError(t, frame.Payload(&chat))
	assert.Equal(t, "__proto__", chat.Message)
}
