package protocol

import (
	"encoding/binary"
	"errors"
	"net"
)

// arpFixedLen is the size of an ARP header up to, but not including, the
// variable-length hardware/protocol address fields.
const arpFixedLen = 8

// ARP is an Address Resolution Protocol packet (RFC 826), as carried
// inside an Ethernet frame with EtherType 0x0806.
type ARP struct {
	HWType      uint16
	ProtoType   uint16
	HWLength    uint8
	ProtoLength uint8
	Opcode      uint16

	HWSrc   net.HardwareAddr
	ProtoSrc net.IP
	HWDst   net.HardwareAddr
	ProtoDst net.IP

	// Padding holds any trailing bytes beyond the ARP fields proper,
	// present when the frame was padded out to the Ethernet minimum.
	Padding []byte
}

// NewARP returns an ARP packet pre-populated for the common Ethernet/IPv4
// case (HWType 1, ProtoType 0x0800, HWLength 6, ProtoLength 4).
func NewARP(opcode uint16) *ARP {
	return &ARP{
		HWType:      1,
		ProtoType:   0x0800,
		HWLength:    6,
		ProtoLength: 4,
		Opcode:      opcode,
	}
}

// Len returns the wire size of a, padding included.
func (a *ARP) Len() int {
	return arpFixedLen + 2*int(a.HWLength) + 2*int(a.ProtoLength) + len(a.Padding)
}

func (a *ARP) MarshalBinary() (data []byte, err error) {
	data = make([]byte, a.Len())
	binary.BigEndian.PutUint16(data[0:2], a.HWType)
	binary.BigEndian.PutUint16(data[2:4], a.ProtoType)
	data[4] = a.HWLength
	data[5] = a.ProtoLength
	binary.BigEndian.PutUint16(data[6:8], a.Opcode)

	off := arpFixedLen
	hw := int(a.HWLength)
	proto := int(a.ProtoLength)

	copy(data[off:off+hw], a.HWSrc)
	off += hw
	copy(data[off:off+proto], a.ProtoSrc.To4())
	off += proto
	copy(data[off:off+hw], a.HWDst)
	off += hw
	copy(data[off:off+proto], a.ProtoDst.To4())
	off += proto
	copy(data[off:], a.Padding)

	return data, nil
}

func (a *ARP) UnmarshalBinary(data []byte) error {
	if len(data) < arpFixedLen {
		return errors.New("the []byte is too short to unmarshal a full ARP message")
	}
	a.HWType = binary.BigEndian.Uint16(data[0:2])
	a.ProtoType = binary.BigEndian.Uint16(data[2:4])
	a.HWLength = data[4]
	a.ProtoLength = data[5]
	a.Opcode = binary.BigEndian.Uint16(data[6:8])

	hw := int(a.HWLength)
	proto := int(a.ProtoLength)
	fixedTotal := arpFixedLen + 2*hw + 2*proto
	if len(data) < fixedTotal {
		return errors.New("the []byte is too short to unmarshal a full ARP message")
	}

	off := arpFixedLen
	a.HWSrc = append(net.HardwareAddr(nil), data[off:off+hw]...)
	off += hw
	a.ProtoSrc = append(net.IP(nil), data[off:off+proto]...)
	off += proto
	a.HWDst = append(net.HardwareAddr(nil), data[off:off+hw]...)
	off += hw
	a.ProtoDst = append(net.IP(nil), data[off:off+proto]...)
	off += proto

	if len(data) > off {
		a.Padding = append([]byte(nil), data[off:]...)
	} else {
		a.Padding = nil
	}
	return nil
}
