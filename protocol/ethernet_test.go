package protocol

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEthernetRoundTripUntagged(t *testing.T) {
	e := &Ethernet{
		HWDst:   net.HardwareAddr{1, 2, 3, 4, 5, 6},
		HWSrc:   net.HardwareAddr{6, 5, 4, 3, 2, 1},
		EthType: EthTypeIPv4,
		Data:    []byte{0xaa, 0xbb},
	}
	data, err := e.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, ethernetFixedLen+2)

	got := &Ethernet{}
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, e, got)
}

func TestEthernetRoundTripVLANTagged(t *testing.T) {
	e := &Ethernet{
		HWDst:      net.HardwareAddr{1, 2, 3, 4, 5, 6},
		HWSrc:      net.HardwareAddr{6, 5, 4, 3, 2, 1},
		VLANTagged: true,
		VLANID:     100,
		VLANPCP:    5,
		VLANDEI:    true,
		EthType:    EthTypeARP,
		Data:       []byte{0x01},
	}
	data, err := e.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, ethernetFixedLen+4+1)

	got := &Ethernet{}
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, e, got)
}
