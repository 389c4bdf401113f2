package of10

import (
	"encoding/binary"
	"fmt"

	"github.com/ofswitch/of10ctrl/util"
)

// flowModFixedLen is FlowMod's wire size up to, but not including, the
// trailing action list.
const flowModFixedLen = 64

// noBufferWire is the wire sentinel (a signed -1) meaning "this FlowMod
// carries no buffered packet".
const noBufferWire uint32 = 0xffffffff

// FlowModCmd is ofp_flow_mod_command.
type FlowModCmd uint16

const (
	FlowModAdd FlowModCmd = iota
	FlowModModify
	FlowModModifyStrict
	FlowModDelete
	FlowModDeleteStrict
)

func (c FlowModCmd) String() string {
	switch c {
	case FlowModAdd:
		return "add"
	case FlowModModify:
		return "modify"
	case FlowModModifyStrict:
		return "modify-strict"
	case FlowModDelete:
		return "delete"
	case FlowModDeleteStrict:
		return "delete-strict"
	default:
		return fmt.Sprintf("FlowModCmd(%d)", uint16(c))
	}
}

// FlowModFlags is the flags word of ofp_flow_mod.
type FlowModFlags struct {
	SendFlowRemoved bool
	CheckOverlap    bool
	Emergency       bool
}

func (f FlowModFlags) wire() uint16 {
	var w uint64
	if f.SendFlowRemoved {
		w = util.SetBit(0, w)
	}
	if f.CheckOverlap {
		w = util.SetBit(1, w)
	}
	if f.Emergency {
		w = util.SetBit(2, w)
	}
	return uint16(w)
}

func parseFlowModFlags(v uint16) FlowModFlags {
	w := uint64(v)
	return FlowModFlags{
		SendFlowRemoved: util.TestBit(0, w),
		CheckOverlap:    util.TestBit(1, w),
		Emergency:       util.TestBit(2, w),
	}
}

// FlowMod installs, updates, or removes entries in a switch's flow table.
type FlowMod struct {
	Match       Pattern
	Cookie      uint64
	Command     FlowModCmd
	IdleTimeout Timeout
	HardTimeout Timeout
	Priority    uint16
	// BufferID is nil when the FlowMod carries no buffered packet
	// (the wire NotBuffered sentinel, -1).
	BufferID *uint32
	// OutPort, when set, restricts a Delete/DeleteStrict command to
	// flows whose action list outputs to this port.
	OutPort *PseudoPort
	Flags   FlowModFlags
	Actions []Action
}

// NewAddFlow builds a FlowMod that installs match with actions at the
// given priority, with no timeouts, no buffered packet, and default flags.
func NewAddFlow(priority uint16, match Pattern, actions []Action) FlowMod {
	return FlowMod{
		Match:       match,
		Command:     FlowModAdd,
		IdleTimeout: Permanent,
		HardTimeout: Permanent,
		Priority:    priority,
		Actions:     actions,
	}
}

// Len returns the wire size of m, actions included.
func (m FlowMod) Len() int {
	n := flowModFixedLen
	for _, a := range m.Actions {
		n += a.Len()
	}
	return n
}

// MarshalBinary renders m as its wire form.
func (m FlowMod) MarshalBinary() ([]byte, error) {
	match, err := m.Match.MarshalBinary()
	if err != nil {
		return nil, err
	}
	actions, err := MarshalActionSequence(m.Actions)
	if err != nil {
		return nil, err
	}

	data := make([]byte, flowModFixedLen+len(actions))
	copy(data[0:40], match)
	binary.BigEndian.PutUint64(data[40:48], m.Cookie)
	binary.BigEndian.PutUint16(data[48:50], uint16(m.Command))
	binary.BigEndian.PutUint16(data[50:52], m.IdleTimeout.WireValue())
	binary.BigEndian.PutUint16(data[52:54], m.HardTimeout.WireValue())
	binary.BigEndian.PutUint16(data[54:56], m.Priority)

	bufferID := noBufferWire
	if m.BufferID != nil {
		bufferID = *m.BufferID
	}
	binary.BigEndian.PutUint32(data[56:60], bufferID)

	outPort := PortNone
	if m.OutPort != nil {
		outPort = m.OutPort.WireCode()
	}
	binary.BigEndian.PutUint16(data[60:62], outPort)
	binary.BigEndian.PutUint16(data[62:64], m.Flags.wire())
	copy(data[64:], actions)
	return data, nil
}

// UnmarshalBinary decodes m from its wire form.
func (m *FlowMod) UnmarshalBinary(data []byte) error {
	if len(data) < flowModFixedLen {
		return fmt.Errorf("of10: FlowMod requires at least %d bytes, got %d", flowModFixedLen, len(data))
	}
	var match Pattern
	if err := match.UnmarshalBinary(data[0:40]); err != nil {
		return err
	}
	m.Match = match
	m.Cookie = binary.BigEndian.Uint64(data[40:48])
	m.Command = FlowModCmd(binary.BigEndian.Uint16(data[48:50]))
	m.IdleTimeout = ParseTimeout(binary.BigEndian.Uint16(data[50:52]))
	m.HardTimeout = ParseTimeout(binary.BigEndian.Uint16(data[52:54]))
	m.Priority = binary.BigEndian.Uint16(data[54:56])

	if bufferID := binary.BigEndian.Uint32(data[56:60]); bufferID != noBufferWire {
		v := bufferID
		m.BufferID = &v
	} else {
		m.BufferID = nil
	}

	outPort, err := ParseOptionalPort(binary.BigEndian.Uint16(data[60:62]))
	if err != nil {
		return err
	}
	m.OutPort = outPort
	m.Flags = parseFlowModFlags(binary.BigEndian.Uint16(data[62:64]))

	actions, err := ParseActionSequence(data[64:])
	if err != nil {
		return err
	}
	m.Actions = actions
	return nil
}
