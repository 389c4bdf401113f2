package of10

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"

	"github.com/ofswitch/of10ctrl/ofp10err"
)

// ActionKind discriminates the Action sum type.
type ActionKind uint16

const (
	ActionKindOutput ActionKind = iota
	ActionKindSetDlVlan
	ActionKindSetDlVlanPCP
	ActionKindSetDlSrc
	ActionKindSetDlDst
	ActionKindSetNwSrc
	ActionKindSetNwDst
	ActionKindSetNwTos
	ActionKindSetTpSrc
	ActionKindSetTpDst
	ActionKindEnqueue
)

// wire action type codes, ofp_action_type.
const (
	actionTypeOutput     uint16 = 0
	actionTypeSetVlanVID uint16 = 1
	actionTypeSetVlanPCP uint16 = 2
	actionTypeStripVlan  uint16 = 3
	actionTypeSetDlSrc   uint16 = 4
	actionTypeSetDlDst   uint16 = 5
	actionTypeSetNwSrc   uint16 = 6
	actionTypeSetNwDst   uint16 = 7
	actionTypeSetNwTos   uint16 = 8
	actionTypeSetTpSrc   uint16 = 9
	actionTypeSetTpDst   uint16 = 10
	actionTypeEnqueue    uint16 = 11
)

const actionHeaderLen = 4

// Action is one entry of a flow's action list: a forwarding decision or a
// packet field rewrite. Only the fields relevant to Kind are meaningful.
type Action struct {
	Kind ActionKind

	Port    PseudoPort       // Output, Enqueue
	VlanVID *uint16          // SetDlVlan; nil means strip the tag
	VlanPCP uint8            // SetDlVlanPCP
	DlAddr  net.HardwareAddr // SetDlSrc, SetDlDst
	NwAddr  uint32           // SetNwSrc, SetNwDst
	NwTos   uint8            // SetNwTos
	TpPort  uint16           // SetTpSrc, SetTpDst
	QueueID uint32           // Enqueue
}

// NewOutputAction builds an action forwarding the packet to port.
func NewOutputAction(port PseudoPort) Action {
	return Action{Kind: ActionKindOutput, Port: port}
}

// NewSetVlanVIDAction sets the packet's VLAN id, tagging it if untagged.
func NewSetVlanVIDAction(vid uint16) Action {
	return Action{Kind: ActionKindSetDlVlan, VlanVID: &vid}
}

// NewStripVlanAction removes any VLAN tag from the packet.
func NewStripVlanAction() Action {
	return Action{Kind: ActionKindSetDlVlan}
}

// NewSetVlanPCPAction sets the packet's VLAN priority bits.
func NewSetVlanPCPAction(pcp uint8) Action {
	return Action{Kind: ActionKindSetDlVlanPCP, VlanPCP: pcp}
}

// NewSetDlSrcAction rewrites the packet's source MAC address.
func NewSetDlSrcAction(mac net.HardwareAddr) Action {
	return Action{Kind: ActionKindSetDlSrc, DlAddr: mac}
}

// NewSetDlDstAction rewrites the packet's destination MAC address.
func NewSetDlDstAction(mac net.HardwareAddr) Action {
	return Action{Kind: ActionKindSetDlDst, DlAddr: mac}
}

// NewSetNwSrcAction rewrites the packet's source IPv4 address.
func NewSetNwSrcAction(addr uint32) Action {
	return Action{Kind: ActionKindSetNwSrc, NwAddr: addr}
}

// NewSetNwDstAction rewrites the packet's destination IPv4 address.
func NewSetNwDstAction(addr uint32) Action {
	return Action{Kind: ActionKindSetNwDst, NwAddr: addr}
}

// NewSetNwTosAction rewrites the packet's IP ToS/DSCP bits.
func NewSetNwTosAction(tos uint8) Action {
	return Action{Kind: ActionKindSetNwTos, NwTos: tos}
}

// NewSetTpSrcAction rewrites the packet's source transport port.
func NewSetTpSrcAction(port uint16) Action {
	return Action{Kind: ActionKindSetTpSrc, TpPort: port}
}

// NewSetTpDstAction rewrites the packet's destination transport port.
func NewSetTpDstAction(port uint16) Action {
	return Action{Kind: ActionKindSetTpDst, TpPort: port}
}

// NewEnqueueAction forwards the packet to a specific queue on port.
func NewEnqueueAction(port PseudoPort, queueID uint32) Action {
	return Action{Kind: ActionKindEnqueue, Port: port, QueueID: queueID}
}

// Len returns the wire size of a, header included.
func (a Action) Len() int {
	switch a.Kind {
	case ActionKindOutput, ActionKindSetDlVlan, ActionKindSetDlVlanPCP,
		ActionKindSetNwSrc, ActionKindSetNwDst, ActionKindSetNwTos,
		ActionKindSetTpSrc, ActionKindSetTpDst:
		return 8
	case ActionKindSetDlSrc, ActionKindSetDlDst, ActionKindEnqueue:
		return 16
	default:
		panic(fmt.Sprintf("of10: unknown ActionKind %d", a.Kind))
	}
}

// MarshalBinary renders a as its TLV wire form.
func (a Action) MarshalBinary() ([]byte, error) {
	switch a.Kind {
	case ActionKindOutput:
		data := make([]byte, 8)
		binary.BigEndian.PutUint16(data[0:2], actionTypeOutput)
		binary.BigEndian.PutUint16(data[2:4], 8)
		binary.BigEndian.PutUint16(data[4:6], a.Port.WireCode())
		var maxLen uint16
		if a.Port.Kind == PseudoPortKindController {
			maxLen = uint16(a.Port.ControllerMaxLen)
		}
		binary.BigEndian.PutUint16(data[6:8], maxLen)
		return data, nil

	case ActionKindSetDlVlan:
		data := make([]byte, 8)
		binary.BigEndian.PutUint16(data[2:4], 8)
		if a.VlanVID == nil {
			binary.BigEndian.PutUint16(data[0:2], actionTypeStripVlan)
		} else {
			binary.BigEndian.PutUint16(data[0:2], actionTypeSetVlanVID)
			binary.BigEndian.PutUint16(data[4:6], *a.VlanVID)
		}
		return data, nil

	case ActionKindSetDlVlanPCP:
		data := make([]byte, 8)
		binary.BigEndian.PutUint16(data[0:2], actionTypeSetVlanPCP)
		binary.BigEndian.PutUint16(data[2:4], 8)
		data[4] = a.VlanPCP
		return data, nil

	case ActionKindSetDlSrc, ActionKindSetDlDst:
		data := make([]byte, 16)
		typ := actionTypeSetDlSrc
		if a.Kind == ActionKindSetDlDst {
			typ = actionTypeSetDlDst
		}
		binary.BigEndian.PutUint16(data[0:2], typ)
		binary.BigEndian.PutUint16(data[2:4], 16)
		copy(data[4:10], a.DlAddr)
		return data, nil

	case ActionKindSetNwSrc, ActionKindSetNwDst:
		data := make([]byte, 8)
		typ := actionTypeSetNwSrc
		if a.Kind == ActionKindSetNwDst {
			typ = actionTypeSetNwDst
		}
		binary.BigEndian.PutUint16(data[0:2], typ)
		binary.BigEndian.PutUint16(data[2:4], 8)
		binary.BigEndian.PutUint32(data[4:8], a.NwAddr)
		return data, nil

	case ActionKindSetNwTos:
		data := make([]byte, 8)
		binary.BigEndian.PutUint16(data[0:2], actionTypeSetNwTos)
		binary.BigEndian.PutUint16(data[2:4], 8)
		data[4] = a.NwTos
		return data, nil

	case ActionKindSetTpSrc, ActionKindSetTpDst:
		data := make([]byte, 8)
		typ := actionTypeSetTpSrc
		if a.Kind == ActionKindSetTpDst {
			typ = actionTypeSetTpDst
		}
		binary.BigEndian.PutUint16(data[0:2], typ)
		binary.BigEndian.PutUint16(data[2:4], 8)
		binary.BigEndian.PutUint16(data[4:6], a.TpPort)
		return data, nil

	case ActionKindEnqueue:
		data := make([]byte, 16)
		binary.BigEndian.PutUint16(data[0:2], actionTypeEnqueue)
		binary.BigEndian.PutUint16(data[2:4], 16)
		binary.BigEndian.PutUint16(data[4:6], a.Port.WireCode())
		binary.BigEndian.PutUint32(data[12:16], a.QueueID)
		return data, nil

	default:
		return nil, fmt.Errorf("of10: unknown ActionKind %d", a.Kind)
	}
}

// parseAction decodes a single action at the front of data and returns how
// many bytes it consumed, per its own length field.
func parseAction(data []byte) (Action, int, error) {
	if len(data) < actionHeaderLen {
		return Action{}, 0, &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrShortHeader,
			Detail: "truncated action header",
		}
	}
	typ := binary.BigEndian.Uint16(data[0:2])
	length := int(binary.BigEndian.Uint16(data[2:4]))
	if length < actionHeaderLen || length > len(data) {
		return Action{}, 0, &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrLengthMismatch,
			Detail: "action length out of range",
		}
	}
	body := data[:length]

	switch typ {
	case actionTypeOutput:
		maxLen := uint64(binary.BigEndian.Uint16(body[6:8]))
		port, err := ParsePseudoPort(binary.BigEndian.Uint16(body[4:6]), maxLen)
		if err != nil {
			return Action{}, 0, err
		}
		return Action{Kind: ActionKindOutput, Port: port}, length, nil

	case actionTypeSetVlanVID:
		vid := binary.BigEndian.Uint16(body[4:6])
		return Action{Kind: ActionKindSetDlVlan, VlanVID: &vid}, length, nil

	case actionTypeStripVlan:
		return Action{Kind: ActionKindSetDlVlan}, length, nil

	case actionTypeSetVlanPCP:
		return Action{Kind: ActionKindSetDlVlanPCP, VlanPCP: body[4]}, length, nil

	case actionTypeSetDlSrc, actionTypeSetDlDst:
		mac := make(net.HardwareAddr, 6)
		copy(mac, body[4:10])
		kind := ActionKindSetDlSrc
		if typ == actionTypeSetDlDst {
			kind = ActionKindSetDlDst
		}
		return Action{Kind: kind, DlAddr: mac}, length, nil

	case actionTypeSetNwSrc, actionTypeSetNwDst:
		kind := ActionKindSetNwSrc
		if typ == actionTypeSetNwDst {
			kind = ActionKindSetNwDst
		}
		return Action{Kind: kind, NwAddr: binary.BigEndian.Uint32(body[4:8])}, length, nil

	case actionTypeSetNwTos:
		return Action{Kind: ActionKindSetNwTos, NwTos: body[4]}, length, nil

	case actionTypeSetTpSrc, actionTypeSetTpDst:
		kind := ActionKindSetTpSrc
		if typ == actionTypeSetTpDst {
			kind = ActionKindSetTpDst
		}
		return Action{Kind: kind, TpPort: binary.BigEndian.Uint16(body[4:6])}, length, nil

	case actionTypeEnqueue:
		port, err := ParsePseudoPort(binary.BigEndian.Uint16(body[4:6]), 0)
		if err != nil {
			return Action{}, 0, err
		}
		return Action{Kind: ActionKindEnqueue, Port: port, QueueID: binary.BigEndian.Uint32(body[12:16])}, length, nil

	default:
		return Action{}, 0, &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrUnknownOpcode,
			Detail: fmt.Sprintf("unknown action type %d", typ),
		}
	}
}

// ParseActionSequence decodes a back-to-back run of actions filling the
// entirety of data. There is no action count field on the wire: each
// action's own length advances the window until the buffer is consumed.
func ParseActionSequence(data []byte) ([]Action, error) {
	var actions []Action
	for len(data) > 0 {
		a, n, err := parseAction(data)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
		data = data[n:]
	}
	return actions, nil
}

// MarshalActionSequence renders actions as a back-to-back TLV sequence.
// Any Output destined for the controller is moved to the end of the
// sequence, so the controller only sees the packet after other forwarding
// actions have been applied. Output(Table) is rejected: the table is a
// valid out_port hint on FlowMod but never a forwarding destination.
func MarshalActionSequence(actions []Action) ([]byte, error) {
	var buf bytes.Buffer
	for _, a := range reorderControllerLast(actions) {
		if a.Kind == ActionKindOutput && a.Port.Kind == PseudoPortKindTable {
			return nil, &ofp10err.ProtocolError{
				Kind:   ofp10err.ErrOutputToTable,
				Detail: "Output(Table) is not a valid action destination",
			}
		}
		data, err := a.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

func reorderControllerLast(actions []Action) []Action {
	ordered := make([]Action, 0, len(actions))
	var toController []Action
	for _, a := range actions {
		if a.Kind == ActionKindOutput && a.Port.Kind == PseudoPortKindController {
			toController = append(toController, a)
			continue
		}
		ordered = append(ordered, a)
	}
	return append(ordered, toController...)
}
