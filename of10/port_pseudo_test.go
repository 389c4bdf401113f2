package of10

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePseudoPortReserved(t *testing.T) {
	cases := []struct {
		code uint16
		want PseudoPort
	}{
		{PortInPort, PseudoPortInPort},
		{PortTable, PseudoPortTable},
		{PortNormal, PseudoPortNormal},
		{PortFlood, PseudoPortFlood},
		{PortAll, PseudoPortAll},
		{PortLocal, PseudoPortLocal},
	}
	for _, c := range cases {
		got, err := ParsePseudoPort(c.code, 0)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
		assert.Equal(t, c.code, got.WireCode())
	}
}

func TestParsePseudoPortController(t *testing.T) {
	got, err := ParsePseudoPort(PortController, 128)
	require.NoError(t, err)
	assert.Equal(t, NewControllerPort(128), got)
	assert.Equal(t, PortController, got.WireCode())
}

func TestParsePseudoPortPhysical(t *testing.T) {
	got, err := ParsePseudoPort(2, 0)
	require.NoError(t, err)
	assert.Equal(t, NewPhysicalPort(2), got)

	got, err = ParsePseudoPort(PortMax, 0)
	require.NoError(t, err)
	assert.Equal(t, NewPhysicalPort(PortMax), got)
}

func TestParsePseudoPortUndefinedRejected(t *testing.T) {
	_, err := ParsePseudoPort(0xff01, 0)
	assert.Error(t, err)

	_, err = ParsePseudoPort(PortNone, 0)
	assert.Error(t, err)
}

func TestParseOptionalPort(t *testing.T) {
	p, err := ParseOptionalPort(PortNone)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = ParseOptionalPort(3)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, NewPhysicalPort(3), *p)
}
