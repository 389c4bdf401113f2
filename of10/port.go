package of10

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/ofswitch/of10ctrl/ofp10err"
	"github.com/ofswitch/of10ctrl/util"
)

// PortDescLength is the fixed wire size of a PortDesc (ofp_phy_port).
const PortDescLength = 48

// PortNameLength is the fixed width of a PortDesc's Name field; names
// longer than this are truncated on marshal, shorter ones zero-padded.
const PortNameLength = 16

// PortConfig bits, ofp_port_config.
type PortConfig struct {
	PortDown    bool
	NoSTP       bool
	NoRecv      bool
	NoRecvSTP   bool
	NoFlood     bool
	NoFwd       bool
	NoPacketIn  bool
}

func (c PortConfig) wire() uint32 {
	var w uint64
	if c.PortDown {
		w = util.SetBit(0, w)
	}
	if c.NoSTP {
		w = util.SetBit(1, w)
	}
	if c.NoRecv {
		w = util.SetBit(2, w)
	}
	if c.NoRecvSTP {
		w = util.SetBit(3, w)
	}
	if c.NoFlood {
		w = util.SetBit(4, w)
	}
	if c.NoFwd {
		w = util.SetBit(5, w)
	}
	if c.NoPacketIn {
		w = util.SetBit(6, w)
	}
	return uint32(w)
}

func parsePortConfig(v uint32) PortConfig {
	w := uint64(v)
	return PortConfig{
		PortDown:   util.TestBit(0, w),
		NoSTP:      util.TestBit(1, w),
		NoRecv:     util.TestBit(2, w),
		NoRecvSTP:  util.TestBit(3, w),
		NoFlood:    util.TestBit(4, w),
		NoFwd:      util.TestBit(5, w),
		NoPacketIn: util.TestBit(6, w),
	}
}

// StpState is the 2-bit spanning tree sub-field of ofp_port_state,
// occupying bits 8-9 of the state word.
type StpState uint8

const (
	StpListen StpState = iota
	StpLearn
	StpForward
	StpBlock
)

func (s StpState) String() string {
	switch s {
	case StpListen:
		return "listen"
	case StpLearn:
		return "learn"
	case StpForward:
		return "forward"
	case StpBlock:
		return "block"
	default:
		return fmt.Sprintf("StpState(%d)", uint8(s))
	}
}

const stpStateShift = 8
const stpStateMask = 0x3

// PortState is ofp_port_state: link-down plus the 2-bit STP sub-state.
type PortState struct {
	LinkDown bool
	Stp      StpState
}

func (s PortState) wire() uint32 {
	var w uint32
	if s.LinkDown {
		w |= 1
	}
	w |= uint32(s.Stp) << stpStateShift
	return w
}

// parsePortState decodes the port-state word. Bits outside the link-down
// bit and the 2-bit STP field are reserved; a switch setting them
// indicates a wire-contract violation rather than a forward-compatible
// extension, since OpenFlow 1.0 never defined any.
func parsePortState(v uint32) (PortState, error) {
	known := uint32(1) | (stpStateMask << stpStateShift)
	if v&^known != 0 {
		return PortState{}, &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrBadSTPState,
			Detail: fmt.Sprintf("port state 0x%x sets reserved bits", v),
		}
	}
	return PortState{
		LinkDown: v&1 != 0,
		Stp:      StpState((v >> stpStateShift) & stpStateMask),
	}, nil
}

// PortFeatures bits, ofp_port_features. Each bit advertises a link mode
// or capability the port supports (for Curr/Advertised/Supported) or was
// negotiated to use (for Peer).
type PortFeatures struct {
	Mode10MbHD     bool
	Mode10MbFD     bool
	Mode100MbHD    bool
	Mode100MbFD    bool
	Mode1GbHD      bool
	Mode1GbFD      bool
	Mode10GbFD     bool
	Copper         bool
	Fiber          bool
	AutoNegotiation bool
	Pause          bool
	PauseAsym      bool
}

func (f PortFeatures) wire() uint32 {
	var w uint64
	bits := []struct {
		set bool
		bit uint
	}{
		{f.Mode10MbHD, 0}, {f.Mode10MbFD, 1}, {f.Mode100MbHD, 2}, {f.Mode100MbFD, 3},
		{f.Mode1GbHD, 4}, {f.Mode1GbFD, 5}, {f.Mode10GbFD, 6}, {f.Copper, 7},
		{f.Fiber, 8}, {f.AutoNegotiation, 9}, {f.Pause, 10}, {f.PauseAsym, 11},
	}
	for _, b := range bits {
		if b.set {
			w = util.SetBit(b.bit, w)
		}
	}
	return uint32(w)
}

func parsePortFeatures(v uint32) PortFeatures {
	w := uint64(v)
	return PortFeatures{
		Mode10MbHD:      util.TestBit(0, w),
		Mode10MbFD:      util.TestBit(1, w),
		Mode100MbHD:     util.TestBit(2, w),
		Mode100MbFD:     util.TestBit(3, w),
		Mode1GbHD:       util.TestBit(4, w),
		Mode1GbFD:       util.TestBit(5, w),
		Mode10GbFD:      util.TestBit(6, w),
		Copper:          util.TestBit(7, w),
		Fiber:           util.TestBit(8, w),
		AutoNegotiation: util.TestBit(9, w),
		Pause:           util.TestBit(10, w),
		PauseAsym:       util.TestBit(11, w),
	}
}

// PortDesc describes one switch port, as carried by SwitchFeatures and
// PortStatus (ofp_phy_port).
type PortDesc struct {
	PortID     uint16
	HWAddr     [6]byte
	Name       string
	Config     PortConfig
	State      PortState
	Curr       PortFeatures
	Advertised PortFeatures
	Supported  PortFeatures
	Peer       PortFeatures
}

// Len returns the wire size of a PortDesc: always PortDescLength.
func (PortDesc) Len() int {
	return PortDescLength
}

// HardwareAddr returns d's HWAddr as a net.HardwareAddr.
func (d PortDesc) HardwareAddr() net.HardwareAddr {
	return util.BytesToMAC(d.HWAddr)
}

// SetHardwareAddr sets d's HWAddr from mac, zero-padding or truncating to
// 6 bytes.
func (d *PortDesc) SetHardwareAddr(mac net.HardwareAddr) {
	d.HWAddr = util.MACToBytes(mac)
}

// MarshalBinary renders d as its 48-byte ofp_phy_port wire form.
func (d PortDesc) MarshalBinary() ([]byte, error) {
	data := make([]byte, PortDescLength)
	binary.BigEndian.PutUint16(data[0:2], d.PortID)
	copy(data[2:8], d.HWAddr[:])

	name := []byte(d.Name)
	if len(name) > PortNameLength {
		name = name[:PortNameLength]
	}
	copy(data[8:8+PortNameLength], name)

	binary.BigEndian.PutUint32(data[24:28], d.Config.wire())
	binary.BigEndian.PutUint32(data[28:32], d.State.wire())
	binary.BigEndian.PutUint32(data[32:36], d.Curr.wire())
	binary.BigEndian.PutUint32(data[36:40], d.Advertised.wire())
	binary.BigEndian.PutUint32(data[40:44], d.Supported.wire())
	binary.BigEndian.PutUint32(data[44:48], d.Peer.wire())
	return data, nil
}

// UnmarshalBinary decodes a 48-byte ofp_phy_port wire form into d.
func (d *PortDesc) UnmarshalBinary(data []byte) error {
	if len(data) < PortDescLength {
		return fmt.Errorf("of10: PortDesc requires %d bytes, got %d", PortDescLength, len(data))
	}
	d.PortID = binary.BigEndian.Uint16(data[0:2])
	copy(d.HWAddr[:], data[2:8])

	nameEnd := 8 + PortNameLength
	nul := nameEnd
	for i := 8; i < nameEnd; i++ {
		if data[i] == 0 {
			nul = i
			break
		}
	}
	d.Name = string(data[8:nul])

	d.Config = parsePortConfig(binary.BigEndian.Uint32(data[24:28]))
	state, err := parsePortState(binary.BigEndian.Uint32(data[28:32]))
	if err != nil {
		return err
	}
	d.State = state
	d.Curr = parsePortFeatures(binary.BigEndian.Uint32(data[32:36]))
	d.Advertised = parsePortFeatures(binary.BigEndian.Uint32(data[36:40]))
	d.Supported = parsePortFeatures(binary.BigEndian.Uint32(data[40:44]))
	d.Peer = parsePortFeatures(binary.BigEndian.Uint32(data[44:48]))
	return nil
}

// PortReason is ofp_port_reason, carried by PortStatus.
type PortReason uint8

const (
	PortReasonAdd PortReason = iota
	PortReasonDelete
	PortReasonModify
)

func (r PortReason) String() string {
	switch r {
	case PortReasonAdd:
		return "add"
	case PortReasonDelete:
		return "delete"
	case PortReasonModify:
		return "modify"
	default:
		return fmt.Sprintf("PortReason(%d)", uint8(r))
	}
}

// PortStatusLength is the fixed wire size of a PortStatus body.
const PortStatusLength = 8 + PortDescLength

// PortStatus is sent by the switch whenever a port's configuration or
// state changes.
type PortStatus struct {
	Reason PortReason
	Desc   PortDesc
}

// Len returns the wire size of s.
func (PortStatus) Len() int {
	return PortStatusLength
}

// MarshalBinary renders s as its wire form.
func (s PortStatus) MarshalBinary() ([]byte, error) {
	data := make([]byte, PortStatusLength)
	data[0] = byte(s.Reason)
	desc, err := s.Desc.MarshalBinary()
	if err != nil {
		return nil, err
	}
	copy(data[8:], desc)
	return data, nil
}

// UnmarshalBinary decodes a PortStatus wire form into s.
func (s *PortStatus) UnmarshalBinary(data []byte) error {
	if len(data) < PortStatusLength {
		return fmt.Errorf("of10: PortStatus requires %d bytes, got %d", PortStatusLength, len(data))
	}
	s.Reason = PortReason(data[0])
	return s.Desc.UnmarshalBinary(data[8:])
}
