package of10

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortDescRoundTrip(t *testing.T) {
	d := PortDesc{
		PortID: 7,
		HWAddr: [6]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		Name:   "eth0",
		Config: PortConfig{NoFlood: true},
		State:  PortState{Stp: StpForward},
		Curr:   PortFeatures{Mode1GbFD: true, Copper: true},
	}
	data, err := d.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, PortDescLength)

	var got PortDesc
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, d, got)
}

func TestPortDescNameTruncation(t *testing.T) {
	d := PortDesc{Name: "a-port-name-that-is-definitely-too-long"}
	data, err := d.MarshalBinary()
	require.NoError(t, err)

	var got PortDesc
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Len(t, got.Name, PortNameLength)
}

func TestPortStateStpField(t *testing.T) {
	for _, stp := range []StpState{StpListen, StpLearn, StpForward, StpBlock} {
		s := PortState{Stp: stp}
		got, err := parsePortState(s.wire())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestPortStateRejectsReservedBits(t *testing.T) {
	_, err := parsePortState(1 << 4)
	assert.Error(t, err)
}

func TestPortDescHardwareAddrAccessors(t *testing.T) {
	var d PortDesc
	mac := net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	d.SetHardwareAddr(mac)
	assert.Equal(t, mac, d.HardwareAddr())
	assert.Equal(t, [6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, d.HWAddr)
}

func TestPortStatusRoundTrip(t *testing.T) {
	ps := PortStatus{
		Reason: PortReasonModify,
		Desc:   PortDesc{PortID: 3, Name: "eth3"},
	}
	data, err := ps.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, PortStatusLength)

	var got PortStatus
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, ps, got)
}
