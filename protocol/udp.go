package protocol

import (
	"encoding/binary"
	"errors"
)

const udpHeaderLen = 8

// UDP is a UDP datagram header (RFC 768).
type UDP struct {
	PortSrc  uint16
	PortDst  uint16
	Length   uint16
	Checksum uint16
	Data     []byte
}

// Len returns the wire size of u, payload included.
func (u *UDP) Len() int {
	return udpHeaderLen + len(u.Data)
}

func (u *UDP) MarshalBinary() ([]byte, error) {
	data := make([]byte, u.Len())
	binary.BigEndian.PutUint16(data[0:2], u.PortSrc)
	binary.BigEndian.PutUint16(data[2:4], u.PortDst)
	binary.BigEndian.PutUint16(data[4:6], u.Length)
	binary.BigEndian.PutUint16(data[6:8], u.Checksum)
	copy(data[8:], u.Data)
	return data, nil
}

func (u *UDP) UnmarshalBinary(data []byte) error {
	if len(data) < udpHeaderLen {
		return errors.New("the []byte is too short to unmarshal a full UDP header")
	}
	u.PortSrc = binary.BigEndian.Uint16(data[0:2])
	u.PortDst = binary.BigEndian.Uint16(data[2:4])
	u.Length = binary.BigEndian.Uint16(data[4:6])
	u.Checksum = binary.BigEndian.Uint16(data[6:8])
	if len(data) > udpHeaderLen {
		u.Data = append([]byte(nil), data[udpHeaderLen:]...)
	} else {
		u.Data = nil
	}
	return nil
}
