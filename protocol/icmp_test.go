package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestICMPRoundTrip(t *testing.T) {
	m := &ICMP{Type: 8, Code: 0, Data: []byte{0x00, 0x01, 0x00, 0x02, 'p', 'i', 'n', 'g'}}
	data, err := m.MarshalBinary()
	require.NoError(t, err)

	got := &ICMP{}
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, m, got)
}

func TestICMPRejectsShortBuffer(t *testing.T) {
	m := &ICMP{}
	assert.Error(t, m.UnmarshalBinary(make([]byte, 2)))
}
