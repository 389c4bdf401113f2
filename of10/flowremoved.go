package of10

import (
	"encoding/binary"
	"fmt"
)

// FlowRemovedLength is the fixed wire size of a FlowRemoved body.
const FlowRemovedLength = 80

// FlowRemovedReason is ofp_flow_removed_reason.
type FlowRemovedReason uint8

const (
	FlowRemovedIdleTimeout FlowRemovedReason = iota
	FlowRemovedHardTimeout
	FlowRemovedDelete
)

func (r FlowRemovedReason) String() string {
	switch r {
	case FlowRemovedIdleTimeout:
		return "idle-timeout"
	case FlowRemovedHardTimeout:
		return "hard-timeout"
	case FlowRemovedDelete:
		return "delete"
	default:
		return fmt.Sprintf("FlowRemovedReason(%d)", uint8(r))
	}
}

// FlowRemoved is sent by the switch when a flow entry expires or is
// deleted with SendFlowRemoved set.
type FlowRemoved struct {
	Match        Pattern
	Cookie       int64
	Priority     uint16
	Reason       FlowRemovedReason
	DurationSec  uint32
	DurationNsec uint32
	IdleTimeout  Timeout
	PacketCount  uint64
	ByteCount    uint64
}

// Len returns the wire size of r: always FlowRemovedLength.
func (FlowRemoved) Len() int {
	return FlowRemovedLength
}

// MarshalBinary renders r as its wire form.
func (r FlowRemoved) MarshalBinary() ([]byte, error) {
	match, err := r.Match.MarshalBinary()
	if err != nil {
		return nil, err
	}
	data := make([]byte, FlowRemovedLength)
	copy(data[0:40], match)
	binary.BigEndian.PutUint64(data[40:48], uint64(r.Cookie))
	binary.BigEndian.PutUint16(data[48:50], r.Priority)
	data[50] = byte(r.Reason)
	// data[51] reserved pad
	binary.BigEndian.PutUint32(data[52:56], r.DurationSec)
	binary.BigEndian.PutUint32(data[56:60], r.DurationNsec)
	binary.BigEndian.PutUint16(data[60:62], r.IdleTimeout.WireValue())
	// data[62:64] reserved pad
	binary.BigEndian.PutUint64(data[64:72], r.PacketCount)
	binary.BigEndian.PutUint64(data[72:80], r.ByteCount)
	return data, nil
}

// UnmarshalBinary decodes r from its wire form.
func (r *FlowRemoved) UnmarshalBinary(data []byte) error {
	if len(data) < FlowRemovedLength {
		return fmt.Errorf("of10: FlowRemoved requires %d bytes, got %d", FlowRemovedLength, len(data))
	}
	var match Pattern
	if err := match.UnmarshalBinary(data[0:40]); err != nil {
		return err
	}
	r.Match = match
	r.Cookie = int64(binary.BigEndian.Uint64(data[40:48]))
	r.Priority = binary.BigEndian.Uint16(data[48:50])
	r.Reason = FlowRemovedReason(data[50])
	r.DurationSec = binary.BigEndian.Uint32(data[52:56])
	r.DurationNsec = binary.BigEndian.Uint32(data[56:60])
	r.IdleTimeout = ParseTimeout(binary.BigEndian.Uint16(data[60:62]))
	r.PacketCount = binary.BigEndian.Uint64(data[64:72])
	r.ByteCount = binary.BigEndian.Uint64(data[72:80])
	return nil
}
