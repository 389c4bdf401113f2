package of10

import (
	"encoding/binary"
	"fmt"
)

// packetInFixedLen is PacketIn's wire size up to, but not including, the
// captured packet data.
const packetInFixedLen = 10

// PacketInReason is ofp_packet_in_reason.
type PacketInReason uint8

const (
	PacketInNoMatch PacketInReason = iota
	PacketInAction
)

func (r PacketInReason) String() string {
	switch r {
	case PacketInNoMatch:
		return "no-match"
	case PacketInAction:
		return "action"
	default:
		return fmt.Sprintf("PacketInReason(%d)", uint8(r))
	}
}

// PacketIn is sent by the switch when a packet misses the flow table (or
// a flow's action explicitly sends it to the controller).
type PacketIn struct {
	// BufferID is nil when the switch sent the complete packet inline
	// (the wire NotBuffered sentinel, -1); otherwise it names the
	// buffer holding the rest of the packet at the switch.
	BufferID *uint32
	TotalLen uint16
	InPort   uint16
	Reason   PacketInReason
	Data     []byte
}

// Len returns the wire size of p, captured data included.
func (p PacketIn) Len() int {
	return packetInFixedLen + len(p.Data)
}

// MarshalBinary renders p as its wire form.
func (p PacketIn) MarshalBinary() ([]byte, error) {
	data := make([]byte, packetInFixedLen+len(p.Data))
	bufferID := noBufferWire
	if p.BufferID != nil {
		bufferID = *p.BufferID
	}
	binary.BigEndian.PutUint32(data[0:4], bufferID)
	binary.BigEndian.PutUint16(data[4:6], p.TotalLen)
	binary.BigEndian.PutUint16(data[6:8], p.InPort)
	data[8] = byte(p.Reason)
	// data[9] reserved pad
	copy(data[packetInFixedLen:], p.Data)
	return data, nil
}

// UnmarshalBinary decodes p from its wire form.
func (p *PacketIn) UnmarshalBinary(data []byte) error {
	if len(data) < packetInFixedLen {
		return fmt.Errorf("of10: PacketIn requires at least %d bytes, got %d", packetInFixedLen, len(data))
	}
	if bufferID := binary.BigEndian.Uint32(data[0:4]); bufferID != noBufferWire {
		v := bufferID
		p.BufferID = &v
	} else {
		p.BufferID = nil
	}
	p.TotalLen = binary.BigEndian.Uint16(data[4:6])
	p.InPort = binary.BigEndian.Uint16(data[6:8])
	p.Reason = PacketInReason(data[8])
	p.Data = append([]byte(nil), data[packetInFixedLen:]...)
	return nil
}
