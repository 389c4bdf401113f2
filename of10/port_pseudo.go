package of10

import (
	"fmt"

	"github.com/ofswitch/of10ctrl/ofp10err"
)

// Reserved port numbers from the OpenFlow 1.0 wire protocol (ofp_port).
const (
	// PortMax is the highest port number considered a physical port.
	PortMax uint16 = 0xff00

	PortInPort     uint16 = 0xfff8
	PortTable      uint16 = 0xfff9
	PortNormal     uint16 = 0xfffa
	PortFlood      uint16 = 0xfffb
	PortAll        uint16 = 0xfffc
	PortController uint16 = 0xfffd
	PortLocal      uint16 = 0xfffe
	PortNone       uint16 = 0xffff
)

// PseudoPortKind discriminates the PseudoPort sum type.
type PseudoPortKind uint8

const (
	PseudoPortKindPhysical PseudoPortKind = iota
	PseudoPortKindInPort
	PseudoPortKindTable
	PseudoPortKindNormal
	PseudoPortKindFlood
	PseudoPortKindAllPorts
	PseudoPortKindController
	PseudoPortKindLocal
)

// PseudoPort is a logical output destination: either a physical port number
// or one of the reserved sinks (controller, flood, normal, table, ...).
type PseudoPort struct {
	Kind PseudoPortKind
	// Physical holds the port number when Kind == PseudoPortKindPhysical.
	Physical uint16
	// ControllerMaxLen holds the max-bytes-to-controller value when
	// Kind == PseudoPortKindController.
	ControllerMaxLen uint64
}

// NewPhysicalPort builds a PseudoPort naming a physical switch port.
// port must be <= PortMax.
func NewPhysicalPort(port uint16) PseudoPort {
	return PseudoPort{Kind: PseudoPortKindPhysical, Physical: port}
}

// NewControllerPort builds a PseudoPort that sends packets to the
// controller, with maxLen bytes-to-controller.
func NewControllerPort(maxLen uint64) PseudoPort {
	return PseudoPort{Kind: PseudoPortKindController, ControllerMaxLen: maxLen}
}

var (
	PseudoPortInPort = PseudoPort{Kind: PseudoPortKindInPort}
	PseudoPortTable  = PseudoPort{Kind: PseudoPortKindTable}
	PseudoPortNormal = PseudoPort{Kind: PseudoPortKindNormal}
	PseudoPortFlood  = PseudoPort{Kind: PseudoPortKindFlood}
	PseudoPortAll    = PseudoPort{Kind: PseudoPortKindAllPorts}
	PseudoPortLocal  = PseudoPort{Kind: PseudoPortKindLocal}
)

// WireCode returns the 16-bit on-wire port number for p, ignoring any
// max-len (the caller is responsible for writing max-len separately, as
// Action's Output body does).
func (p PseudoPort) WireCode() uint16 {
	switch p.Kind {
	case PseudoPortKindPhysical:
		return p.Physical
	case PseudoPortKindInPort:
		return PortInPort
	case PseudoPortKindTable:
		return PortTable
	case PseudoPortKindNormal:
		return PortNormal
	case PseudoPortKindFlood:
		return PortFlood
	case PseudoPortKindAllPorts:
		return PortAll
	case PseudoPortKindController:
		return PortController
	case PseudoPortKindLocal:
		return PortLocal
	default:
		panic(fmt.Sprintf("of10: unknown PseudoPortKind %d", p.Kind))
	}
}

// ParsePseudoPort decodes the 16-bit wire port code into a PseudoPort.
// maxLen is only meaningful for the Controller pseudo-port and is ignored
// otherwise. Port codes in (PortMax, PortInPort) are undefined by the
// OpenFlow 1.0 spec and are rejected.
func ParsePseudoPort(code uint16, maxLen uint64) (PseudoPort, error) {
	switch code {
	case PortInPort:
		return PseudoPortInPort, nil
	case PortTable:
		return PseudoPortTable, nil
	case PortNormal:
		return PseudoPortNormal, nil
	case PortFlood:
		return PseudoPortFlood, nil
	case PortAll:
		return PseudoPortAll, nil
	case PortController:
		return NewControllerPort(maxLen), nil
	case PortLocal:
		return PseudoPortLocal, nil
	default:
		if code <= PortMax {
			return NewPhysicalPort(code), nil
		}
		return PseudoPort{}, &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrBadPortCode,
			Detail: fmt.Sprintf("unsupported port number %d", code),
		}
	}
}

// ParseOptionalPort decodes a port field where PortNone means "absent",
// used by FlowMod.OutPort and PacketOut.InPort.
func ParseOptionalPort(code uint16) (*PseudoPort, error) {
	if code == PortNone {
		return nil, nil
	}
	p, err := ParsePseudoPort(code, 0)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
