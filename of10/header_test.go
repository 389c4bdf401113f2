package of10

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderMarshalBinary(t *testing.T) {
	h := NewHeader(Version, TypeHello, 8, 0x2A)
	data, err := h.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x2A}, data)
}

func TestHeaderUnmarshalBinary(t *testing.T) {
	data := []byte{0x01, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x2A}
	var h Header
	require.NoError(t, h.UnmarshalBinary(data))
	assert.Equal(t, Version, h.Version)
	assert.Equal(t, TypeHello, h.Type)
	assert.EqualValues(t, 8, h.Length)
	assert.EqualValues(t, 0x2A, h.Xid)
}

func TestHeaderUnmarshalBinaryShort(t *testing.T) {
	var h Header
	err := h.UnmarshalBinary([]byte{0x01, 0x00, 0x00})
	assert.Error(t, err)
}

func TestHeaderRoundTrip(t *testing.T) {
	h := NewHeader(Version, TypeFeaturesReply, 0x50, 0xdeadbeef)
	data, err := h.MarshalBinary()
	require.NoError(t, err)

	var got Header
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, h, got)
}

func TestOpcodeValid(t *testing.T) {
	assert.True(t, TypeHello.Valid())
	assert.True(t, TypeQueueGetConfigReply.Valid())
	assert.False(t, Opcode(22).Valid())
}
