package protocol

import (
	"encoding/binary"
	"errors"
)

const icmpHeaderLen = 4

// ICMP is an ICMP message header (RFC 792). The type-specific rest-of-
// header (echo identifier/sequence, redirect gateway, etc.) is left in
// Data along with any payload, since this spec only needs to recognize
// ICMP as a transport dimension of Pattern, not decode every message type.
type ICMP struct {
	Type     uint8
	Code     uint8
	Checksum uint16
	Data     []byte
}

// Len returns the wire size of m, payload included.
func (m *ICMP) Len() int {
	return icmpHeaderLen + len(m.Data)
}

func (m *ICMP) MarshalBinary() ([]byte, error) {
	data := make([]byte, m.Len())
	data[0] = m.Type
	data[1] = m.Code
	binary.BigEndian.PutUint16(data[2:4], m.Checksum)
	copy(data[4:], m.Data)
	return data, nil
}

func (m *ICMP) UnmarshalBinary(data []byte) error {
	if len(data) < icmpHeaderLen {
		return errors.New("the []byte is too short to unmarshal a full ICMP header")
	}
	m.Type = data[0]
	m.Code = data[1]
	m.Checksum = binary.BigEndian.Uint16(data[2:4])
	if len(data) > icmpHeaderLen {
		m.Data = append([]byte(nil), data[icmpHeaderLen:]...)
	} else {
		m.Data = nil
	}
	return nil
}
