package of10

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/ofswitch/of10ctrl/util"
)

// PatternLength is the fixed wire size, in bytes, of a Pattern (ofp_match).
const PatternLength = 40

// wildcard bit positions within the 32-bit wildcards word.
const (
	wildcardInPort    = 0
	wildcardDlVlan    = 1
	wildcardDlSrc     = 2
	wildcardDlDst     = 3
	wildcardDlType    = 4
	wildcardNwProto   = 5
	wildcardTpSrc     = 6
	wildcardTpDst     = 7
	wildcardNwSrcMask = 8  // 6 bits: 8..13
	wildcardNwDstMask = 14 // 6 bits: 14..19
	wildcardDlVlanPcp = 20
	wildcardNwTos     = 21
)

// nwSrcDstFullyWildcarded is the OpenFlow 1.0 convention that any mask-bit
// count >= 32 means the address dimension is not matched at all.
const nwSrcDstFullyWildcarded = 32

// VlanMatch is the "optional of optional" dl_vlan match dimension: its mere
// presence on Pattern means the flow cares about VLAN tagging at all;
// Untagged distinguishes "match untagged traffic" from "match VID".
type VlanMatch struct {
	// Untagged, when true, matches packets without a VLAN tag. VID is
	// ignored in that case.
	Untagged bool
	VID      uint16
}

// IPMatch is an IPv4 address match with an optional CIDR mask, expressed
// as the OpenFlow 1.0 wire convention: MaskBits counts the number of
// low-order address bits that are wildcarded (0 = exact match).
type IPMatch struct {
	Addr     uint32
	MaskBits uint8
}

// Pattern is a flow match specification. Every field is optional; a nil (or
// zero-length, for the MAC fields) field wildcards that dimension.
type Pattern struct {
	DlSrc     net.HardwareAddr
	DlDst     net.HardwareAddr
	DlTyp     *uint16
	DlVlan    *VlanMatch
	DlVlanPCP *uint8
	NwSrc     *IPMatch
	NwDst     *IPMatch
	NwProto   *uint8
	NwTos     *uint8
	TpSrc     *uint16
	TpDst     *uint16
	InPort    *uint16
}

// MatchAll returns the fully wildcarded Pattern: it matches every packet.
func MatchAll() Pattern {
	return Pattern{}
}

// Len returns the wire size of a Pattern: always PatternLength.
func (p Pattern) Len() int {
	return PatternLength
}

func nwMaskWord(m *IPMatch) uint32 {
	if m == nil {
		return nwSrcDstFullyWildcarded
	}
	return uint32(m.MaskBits)
}

// wildcards computes the 32-bit wildcard bitfield for p.
func (p Pattern) wildcards() uint32 {
	var w uint32
	if p.InPort == nil {
		w |= 1 << wildcardInPort
	}
	if p.DlVlan == nil {
		w |= 1 << wildcardDlVlan
	}
	if len(p.DlSrc) == 0 {
		w |= 1 << wildcardDlSrc
	}
	if len(p.DlDst) == 0 {
		w |= 1 << wildcardDlDst
	}
	if p.DlTyp == nil {
		w |= 1 << wildcardDlType
	}
	if p.NwProto == nil {
		w |= 1 << wildcardNwProto
	}
	if p.TpSrc == nil {
		w |= 1 << wildcardTpSrc
	}
	if p.TpDst == nil {
		w |= 1 << wildcardTpDst
	}
	w |= nwMaskWord(p.NwSrc) << wildcardNwSrcMask
	w |= nwMaskWord(p.NwDst) << wildcardNwDstMask
	if p.DlVlanPCP == nil {
		w |= 1 << wildcardDlVlanPcp
	}
	if p.NwTos == nil {
		w |= 1 << wildcardNwTos
	}
	return w
}

// MarshalBinary renders p as its 40-byte ofp_match wire form. Wildcarded
// fields are zero-filled, except dl_vlan, which carries 0xffff when
// absent; the wildcards word is the authority on which bytes are
// meaningful.
func (p Pattern) MarshalBinary() ([]byte, error) {
	data := make([]byte, PatternLength)

	binary.BigEndian.PutUint32(data[0:4], p.wildcards())
	if p.InPort != nil {
		binary.BigEndian.PutUint16(data[4:6], *p.InPort)
	}
	if len(p.DlSrc) == 6 {
		copy(data[6:12], p.DlSrc)
	}
	if len(p.DlDst) == 6 {
		copy(data[12:18], p.DlDst)
	}
	switch {
	case p.DlVlan == nil:
		binary.BigEndian.PutUint16(data[18:20], 0xffff)
	case p.DlVlan.Untagged:
		binary.BigEndian.PutUint16(data[18:20], 0x0fff)
	default:
		binary.BigEndian.PutUint16(data[18:20], p.DlVlan.VID)
	}
	if p.DlVlanPCP != nil {
		data[20] = *p.DlVlanPCP
	}
	// data[21] reserved pad
	if p.DlTyp != nil {
		binary.BigEndian.PutUint16(data[22:24], *p.DlTyp)
	}
	if p.NwTos != nil {
		data[24] = *p.NwTos
	}
	if p.NwProto != nil {
		data[25] = *p.NwProto
	}
	// data[26:28] reserved pad
	if p.NwSrc != nil {
		binary.BigEndian.PutUint32(data[28:32], p.NwSrc.Addr)
	}
	if p.NwDst != nil {
		binary.BigEndian.PutUint32(data[32:36], p.NwDst.Addr)
	}
	if p.TpSrc != nil {
		binary.BigEndian.PutUint16(data[36:38], *p.TpSrc)
	}
	if p.TpDst != nil {
		binary.BigEndian.PutUint16(data[38:40], *p.TpDst)
	}
	return data, nil
}

// UnmarshalBinary decodes the 40-byte ofp_match wire form into p.
func (p *Pattern) UnmarshalBinary(data []byte) error {
	if len(data) < PatternLength {
		return fmt.Errorf("of10: Pattern requires %d bytes, got %d", PatternLength, len(data))
	}
	*p = Pattern{}

	w := uint64(binary.BigEndian.Uint32(data[0:4]))

	if !util.TestBit(wildcardInPort, w) {
		v := binary.BigEndian.Uint16(data[4:6])
		p.InPort = &v
	}
	if !util.TestBit(wildcardDlSrc, w) {
		mac := make(net.HardwareAddr, 6)
		copy(mac, data[6:12])
		p.DlSrc = mac
	}
	if !util.TestBit(wildcardDlDst, w) {
		mac := make(net.HardwareAddr, 6)
		copy(mac, data[12:18])
		p.DlDst = mac
	}
	if !util.TestBit(wildcardDlVlan, w) {
		vid := binary.BigEndian.Uint16(data[18:20])
		if vid == 0x0fff || vid == 0xffff {
			p.DlVlan = &VlanMatch{Untagged: true}
		} else {
			p.DlVlan = &VlanMatch{VID: vid}
		}
	}
	if !util.TestBit(wildcardDlVlanPcp, w) {
		v := data[20]
		p.DlVlanPCP = &v
	}
	if !util.TestBit(wildcardDlType, w) {
		v := binary.BigEndian.Uint16(data[22:24])
		p.DlTyp = &v
	}
	if !util.TestBit(wildcardNwTos, w) {
		v := data[24]
		p.NwTos = &v
	}
	if !util.TestBit(wildcardNwProto, w) {
		v := data[25]
		p.NwProto = &v
	}

	if nwSrcMask := uint8((w >> wildcardNwSrcMask) & 0x3f); nwSrcMask < nwSrcDstFullyWildcarded {
		p.NwSrc = &IPMatch{Addr: binary.BigEndian.Uint32(data[28:32]), MaskBits: nwSrcMask}
	}
	if nwDstMask := uint8((w >> wildcardNwDstMask) & 0x3f); nwDstMask < nwSrcDstFullyWildcarded {
		p.NwDst = &IPMatch{Addr: binary.BigEndian.Uint32(data[32:36]), MaskBits: nwDstMask}
	}
	if !util.TestBit(wildcardTpSrc, w) {
		v := binary.BigEndian.Uint16(data[36:38])
		p.TpSrc = &v
	}
	if !util.TestBit(wildcardTpDst, w) {
		v := binary.BigEndian.Uint16(data[38:40])
		p.TpDst = &v
	}
	return nil
}
