package protocol

import (
	"encoding/binary"
	"errors"
	"net"
)

// IPProto names an IPv4 protocol number relevant to transport dispatch.
type IPProto uint8

const (
	IPProtoICMP IPProto = 1
	IPProtoTCP  IPProto = 6
	IPProtoUDP  IPProto = 17
)

// IPv4Flags is the 3-bit flags field of an IPv4 header.
type IPv4Flags struct {
	DontFragment  bool
	MoreFragments bool
}

// IPv4 is an IPv4 header (RFC 791), with any options preserved verbatim
// and the transport payload carried unparsed in Data; callers dispatch
// on Proto to decode TCP/UDP/ICMP.
type IPv4 struct {
	Version    uint8
	IHL        uint8
	TOS        uint8
	TotalLen   uint16
	Identification uint16
	Flags      IPv4Flags
	FragOffset uint16
	TTL        uint8
	Proto      IPProto
	Checksum   uint16
	Src        net.IP
	Dst        net.IP
	Options    []byte
	Data       []byte
}

// Len returns the wire size of p, options and payload included.
func (p *IPv4) Len() int {
	return 20 + len(p.Options) + len(p.Data)
}

func (p *IPv4) headerLen() int {
	return 20 + len(p.Options)
}

func (p *IPv4) MarshalBinary() ([]byte, error) {
	data := make([]byte, p.Len())
	ihl := uint8(p.headerLen() / 4)
	data[0] = (p.Version << 4) | (ihl & 0x0f)
	data[1] = p.TOS
	binary.BigEndian.PutUint16(data[2:4], p.TotalLen)
	binary.BigEndian.PutUint16(data[4:6], p.Identification)

	flagsFrag := p.FragOffset & 0x1fff
	if p.Flags.DontFragment {
		flagsFrag |= 1 << 14
	}
	if p.Flags.MoreFragments {
		flagsFrag |= 1 << 13
	}
	binary.BigEndian.PutUint16(data[6:8], flagsFrag)

	data[8] = p.TTL
	data[9] = uint8(p.Proto)
	binary.BigEndian.PutUint16(data[10:12], p.Checksum)
	copy(data[12:16], p.Src.To4())
	copy(data[16:20], p.Dst.To4())
	copy(data[20:20+len(p.Options)], p.Options)
	copy(data[p.headerLen():], p.Data)
	return data, nil
}

func (p *IPv4) UnmarshalBinary(data []byte) error {
	if len(data) < 20 {
		return errors.New("the []byte is too short to unmarshal a full IPv4 header")
	}
	p.Version = data[0] >> 4
	p.IHL = data[0] & 0x0f
	p.TOS = data[1]
	p.TotalLen = binary.BigEndian.Uint16(data[2:4])
	p.Identification = binary.BigEndian.Uint16(data[4:6])

	flagsFrag := binary.BigEndian.Uint16(data[6:8])
	p.Flags = IPv4Flags{
		DontFragment:  flagsFrag&(1<<14) != 0,
		MoreFragments: flagsFrag&(1<<13) != 0,
	}
	p.FragOffset = flagsFrag & 0x1fff

	p.TTL = data[8]
	p.Proto = IPProto(data[9])
	p.Checksum = binary.BigEndian.Uint16(data[10:12])
	p.Src = append(net.IP(nil), data[12:16]...)
	p.Dst = append(net.IP(nil), data[16:20]...)

	hdrLen := int(p.IHL) * 4
	if hdrLen < 20 {
		return errors.New("IPv4 IHL is smaller than the minimum header size")
	}
	if len(data) < hdrLen {
		return errors.New("the []byte is too short for its declared IHL")
	}
	p.Options = append([]byte(nil), data[20:hdrLen]...)
	p.Data = append([]byte(nil), data[hdrLen:]...)
	return nil
}
