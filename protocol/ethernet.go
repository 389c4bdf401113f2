package protocol

import (
	"encoding/binary"
	"errors"
	"net"
)

// EthType is an EtherType value identifying the payload protocol of an
// Ethernet frame.
type EthType uint16

const (
	EthTypeIPv4 EthType = 0x0800
	EthTypeARP  EthType = 0x0806
	EthTypeVLAN EthType = 0x8100
)

// ethernetFixedLen is an Ethernet header's size, VLAN tag excluded.
const ethernetFixedLen = 14

// Ethernet is an Ethernet II frame header, with an optional 802.1Q VLAN
// tag between the addresses and the EtherType.
type Ethernet struct {
	HWDst net.HardwareAddr
	HWSrc net.HardwareAddr

	// VLANTagged, VLANID, VLANPCP, VLANDEI describe the optional
	// 802.1Q tag. VLANTagged is false when the frame carries none.
	VLANTagged bool
	VLANID     uint16
	VLANPCP    uint8
	VLANDEI    bool

	EthType EthType
	Data    []byte
}

// Len returns the wire size of e, VLAN tag and payload included.
func (e *Ethernet) Len() int {
	n := ethernetFixedLen + len(e.Data)
	if e.VLANTagged {
		n += 4
	}
	return n
}

func (e *Ethernet) MarshalBinary() ([]byte, error) {
	data := make([]byte, e.Len())
	copy(data[0:6], e.HWDst)
	copy(data[6:12], e.HWSrc)

	off := 12
	if e.VLANTagged {
		binary.BigEndian.PutUint16(data[off:off+2], uint16(EthTypeVLAN))
		tag := e.VLANID & 0x0fff
		if e.VLANDEI {
			tag |= 0x1000
		}
		tag |= uint16(e.VLANPCP) << 13
		binary.BigEndian.PutUint16(data[off+2:off+4], tag)
		off += 4
	}
	binary.BigEndian.PutUint16(data[off:off+2], uint16(e.EthType))
	off += 2
	copy(data[off:], e.Data)
	return data, nil
}

func (e *Ethernet) UnmarshalBinary(data []byte) error {
	if len(data) < ethernetFixedLen {
		return errors.New("the []byte is too short to unmarshal a full Ethernet header")
	}
	e.HWDst = append(net.HardwareAddr(nil), data[0:6]...)
	e.HWSrc = append(net.HardwareAddr(nil), data[6:12]...)

	off := 12
	typ := EthType(binary.BigEndian.Uint16(data[off : off+2]))
	if typ == EthTypeVLAN {
		if len(data) < ethernetFixedLen+4 {
			return errors.New("the []byte is too short to unmarshal a tagged Ethernet header")
		}
		e.VLANTagged = true
		tag := binary.BigEndian.Uint16(data[off+2 : off+4])
		e.VLANID = tag & 0x0fff
		e.VLANDEI = tag&0x1000 != 0
		e.VLANPCP = uint8(tag >> 13)
		off += 4
		typ = EthType(binary.BigEndian.Uint16(data[off : off+2]))
	} else {
		e.VLANTagged = false
	}
	e.EthType = typ
	off += 2
	e.Data = append([]byte(nil), data[off:]...)
	return nil
}
