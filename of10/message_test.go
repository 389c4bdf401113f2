package of10

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, xid uint32, typ Opcode, body Body) Message {
	t.Helper()
	data, err := Marshal(xid, typ, body)
	require.NoError(t, err)

	var h Header
	require.NoError(t, h.UnmarshalBinary(data[:HeaderLength]))
	assert.Equal(t, typ, h.Type)
	assert.Equal(t, xid, h.Xid)

	msg, err := ParseMessage(h, data[HeaderLength:])
	require.NoError(t, err)
	return msg
}

func TestMessageHelloWireVector(t *testing.T) {
	data, err := Marshal(42, TypeHello, Hello{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x2A}, data)
}

func TestMessageRoundTripFeaturesRequest(t *testing.T) {
	msg := roundTrip(t, 1, TypeFeaturesRequest, FeaturesRequest{})
	assert.Equal(t, FeaturesRequest{}, msg.Body)
}

func TestMessageRoundTripFeaturesReply(t *testing.T) {
	sf := SwitchFeatures{DatapathID: 7, NumTables: 1, Ports: []PortDesc{{PortID: 1, Name: "eth0"}}}
	msg := roundTrip(t, 2, TypeFeaturesReply, sf)
	assert.Equal(t, sf, msg.Body)
}

func TestMessageRoundTripEchoRequestAndReply(t *testing.T) {
	e := Echo{Data: []byte{0xde, 0xad, 0xbe, 0xef}}
	req := roundTrip(t, 3, TypeEchoRequest, e)
	assert.Equal(t, e, req.Body)

	reply := roundTrip(t, 3, TypeEchoReply, e.Reply())
	assert.Equal(t, e, reply.Body)
}

func TestMessageRoundTripFlowMod(t *testing.T) {
	fm := NewAddFlow(1, MatchAll(), []Action{NewOutputAction(NewPhysicalPort(2))})
	msg := roundTrip(t, 4, TypeFlowMod, fm)
	assert.Equal(t, fm, msg.Body)
}

func TestMessageRoundTripPacketIn(t *testing.T) {
	pi := PacketIn{TotalLen: 64, InPort: 1, Reason: PacketInNoMatch, Data: []byte{1, 2, 3}}
	msg := roundTrip(t, 5, TypePacketIn, pi)
	assert.Equal(t, pi, msg.Body)
}

func TestMessageRoundTripPacketOut(t *testing.T) {
	po := PacketOut{Payload: NotBuffered([]byte{9, 9}), Actions: []Action{NewOutputAction(PseudoPortFlood)}}
	msg := roundTrip(t, 6, TypePacketOut, po)
	assert.Equal(t, po, msg.Body)
}

func TestMessageRoundTripFlowRemoved(t *testing.T) {
	fr := FlowRemoved{Match: MatchAll(), Cookie: -1, Reason: FlowRemovedDelete}
	msg := roundTrip(t, 7, TypeFlowRemoved, fr)
	assert.Equal(t, fr, msg.Body)
}

func TestMessageRoundTripPortStatus(t *testing.T) {
	ps := PortStatus{Reason: PortReasonAdd, Desc: PortDesc{PortID: 3}}
	msg := roundTrip(t, 8, TypePortStatus, ps)
	assert.Equal(t, ps, msg.Body)
}

func TestMessageRoundTripError(t *testing.T) {
	em := ErrorMsg{ErrorType: 1, ErrorCode: 2, Data: []byte{0x01, 0x00, 0x00, 0x08}}
	msg := roundTrip(t, 9, TypeError, em)
	assert.Equal(t, em, msg.Body)
}

func TestMessageRoundTripBarrier(t *testing.T) {
	req := roundTrip(t, 10, TypeBarrierRequest, Barrier{})
	assert.Equal(t, Barrier{}, req.Body)
	reply := roundTrip(t, 10, TypeBarrierReply, Barrier{})
	assert.Equal(t, Barrier{}, reply.Body)
}

func TestMessageRoundTripRawPassthrough(t *testing.T) {
	raw := RawMessage{Body: []byte{0x01, 0x02, 0x03}}
	for _, typ := range []Opcode{
		TypeVendor, TypeGetConfigRequest, TypeGetConfigReply, TypeSetConfig,
		TypePortMod, TypeStatsRequest, TypeStatsReply,
		TypeQueueGetConfigRequest, TypeQueueGetConfigReply,
	} {
		msg := roundTrip(t, 11, typ, raw)
		assert.Equal(t, raw, msg.Body)
	}
}

func TestParseMessageRejectsLengthMismatch(t *testing.T) {
	h := NewHeader(Version, TypeHello, 10, 1)
	_, err := ParseMessage(h, []byte{})
	assert.Error(t, err)
}

func TestParseMessageRejectsUnknownOpcode(t *testing.T) {
	h := NewHeader(Version, Opcode(200), HeaderLength, 1)
	_, err := ParseMessage(h, []byte{})
	assert.Error(t, err)
}
