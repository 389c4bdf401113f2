package of10

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionOutputRoundTrip(t *testing.T) {
	a := NewOutputAction(NewPhysicalPort(3))
	data, err := a.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 8)

	got, n, err := parseAction(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, a, got)
}

func TestActionOutputControllerCarriesMaxLen(t *testing.T) {
	a := NewOutputAction(NewControllerPort(128))
	data, err := a.MarshalBinary()
	require.NoError(t, err)

	got, _, err := parseAction(data)
	require.NoError(t, err)
	assert.EqualValues(t, 128, got.Port.ControllerMaxLen)
}

func TestActionSetVlanVIDRoundTrip(t *testing.T) {
	a := NewSetVlanVIDAction(42)
	data, err := a.MarshalBinary()
	require.NoError(t, err)

	got, _, err := parseAction(data)
	require.NoError(t, err)
	require.NotNil(t, got.VlanVID)
	assert.EqualValues(t, 42, *got.VlanVID)
}

func TestActionStripVlanRoundTrip(t *testing.T) {
	a := NewStripVlanAction()
	data, err := a.MarshalBinary()
	require.NoError(t, err)
	assert.EqualValues(t, actionTypeStripVlan, uint16(data[0])<<8|uint16(data[1]))

	got, _, err := parseAction(data)
	require.NoError(t, err)
	assert.Nil(t, got.VlanVID)
}

func TestActionSetDlSrcRoundTrip(t *testing.T) {
	mac := net.HardwareAddr{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	a := NewSetDlSrcAction(mac)
	data, err := a.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 16)

	got, n, err := parseAction(data)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, mac, got.DlAddr)
}

func TestActionEnqueueRoundTrip(t *testing.T) {
	a := NewEnqueueAction(NewPhysicalPort(5), 9)
	data, err := a.MarshalBinary()
	require.NoError(t, err)

	got, _, err := parseAction(data)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestParseActionSequenceMultiple(t *testing.T) {
	actions := []Action{
		NewSetVlanVIDAction(7),
		NewOutputAction(NewPhysicalPort(1)),
		NewOutputAction(NewControllerPort(64)),
	}
	data, err := MarshalActionSequence(actions)
	require.NoError(t, err)

	got, err := ParseActionSequence(data)
	require.NoError(t, err)
	assert.Equal(t, actions, got)
}

func TestMarshalActionSequenceMovesControllerLast(t *testing.T) {
	actions := []Action{
		NewOutputAction(NewControllerPort(64)),
		NewOutputAction(NewPhysicalPort(1)),
	}
	data, err := MarshalActionSequence(actions)
	require.NoError(t, err)

	got, err := ParseActionSequence(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, PseudoPortKindPhysical, got[0].Port.Kind)
	assert.Equal(t, PseudoPortKindController, got[1].Port.Kind)
}

func TestMarshalActionSequenceRejectsOutputToTable(t *testing.T) {
	_, err := MarshalActionSequence([]Action{NewOutputAction(PseudoPortTable)})
	assert.Error(t, err)
}

func TestParseActionSequenceEmpty(t *testing.T) {
	got, err := ParseActionSequence(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
