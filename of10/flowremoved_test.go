package of10

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowRemovedRoundTrip(t *testing.T) {
	r := FlowRemoved{
		Match:        MatchAll(),
		Cookie:       12345,
		Priority:     10,
		Reason:       FlowRemovedDelete,
		DurationSec:  60,
		DurationNsec: 500,
		IdleTimeout:  ExpiresAfter(30),
		PacketCount:  100,
		ByteCount:    64000,
	}
	data, err := r.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, FlowRemovedLength)

	var got FlowRemoved
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, r, got)
}

// TestFlowRemovedRoundTripNegativeCookie pins Cookie's wire-sign
// behavior: a switch-assigned cookie with the high bit set must
// round-trip as the same negative int64, not silently become a huge
// positive number.
func TestFlowRemovedRoundTripNegativeCookie(t *testing.T) {
	for _, cookie := range []int64{-1, math.MinInt64} {
		r := FlowRemoved{Match: MatchAll(), Cookie: cookie, Reason: FlowRemovedIdleTimeout}
		data, err := r.MarshalBinary()
		require.NoError(t, err)

		var got FlowRemoved
		require.NoError(t, got.UnmarshalBinary(data))
		assert.Equal(t, cookie, got.Cookie)
	}
}

func TestFlowRemovedUnmarshalShort(t *testing.T) {
	var r FlowRemoved
	assert.Error(t, r.UnmarshalBinary(make([]byte, FlowRemovedLength-1)))
}
