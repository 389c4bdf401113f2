package of10

import (
	"encoding/binary"
	"fmt"
)

// packetOutFixedLen is PacketOut's wire size up to, but not including,
// the action list and any trailing packet data.
const packetOutFixedLen = 8

// Payload is what a PacketOut sends onto the wire: either a reference to
// a packet the switch already buffered, or the packet bytes themselves.
type Payload struct {
	// BufferID is nil for NotBuffered (Data carries the packet);
	// otherwise it names a buffer held by the switch and Data is empty.
	BufferID *uint32
	Data     []byte
}

// Buffered builds a Payload referencing a switch-held buffer.
func Buffered(bufferID uint32) Payload {
	return Payload{BufferID: &bufferID}
}

// NotBuffered builds a Payload carrying the packet bytes inline.
func NotBuffered(data []byte) Payload {
	return Payload{Data: data}
}

// PacketOut instructs the switch to inject or forward a packet via the
// given actions.
type PacketOut struct {
	Payload Payload
	// InPort, when set, tells the switch to treat the packet as having
	// arrived on this port (relevant to actions like Flood that exclude
	// the ingress port). Nil means no ingress port (OFPP_NONE).
	InPort  *PseudoPort
	Actions []Action
}

// Len returns the wire size of m, actions and any inline data included.
func (m PacketOut) Len() int {
	n := packetOutFixedLen
	for _, a := range m.Actions {
		n += a.Len()
	}
	if m.Payload.BufferID == nil {
		n += len(m.Payload.Data)
	}
	return n
}

// MarshalBinary renders m as its wire form.
func (m PacketOut) MarshalBinary() ([]byte, error) {
	actions, err := MarshalActionSequence(m.Actions)
	if err != nil {
		return nil, err
	}

	var tail []byte
	bufferID := noBufferWire
	if m.Payload.BufferID != nil {
		bufferID = *m.Payload.BufferID
	} else {
		tail = m.Payload.Data
	}

	data := make([]byte, packetOutFixedLen+len(actions)+len(tail))
	binary.BigEndian.PutUint32(data[0:4], bufferID)

	inPort := PortNone
	if m.InPort != nil {
		inPort = m.InPort.WireCode()
	}
	binary.BigEndian.PutUint16(data[4:6], inPort)
	binary.BigEndian.PutUint16(data[6:8], uint16(len(actions)))
	copy(data[8:8+len(actions)], actions)
	copy(data[8+len(actions):], tail)
	return data, nil
}

// UnmarshalBinary decodes m from its wire form.
func (m *PacketOut) UnmarshalBinary(data []byte) error {
	if len(data) < packetOutFixedLen {
		return fmt.Errorf("of10: PacketOut requires at least %d bytes, got %d", packetOutFixedLen, len(data))
	}
	bufferID := binary.BigEndian.Uint32(data[0:4])

	inPort, err := ParseOptionalPort(binary.BigEndian.Uint16(data[4:6]))
	if err != nil {
		return err
	}
	m.InPort = inPort

	actionsLen := int(binary.BigEndian.Uint16(data[6:8]))
	if packetOutFixedLen+actionsLen > len(data) {
		return fmt.Errorf("of10: PacketOut actions_len %d exceeds body", actionsLen)
	}
	actions, err := ParseActionSequence(data[packetOutFixedLen : packetOutFixedLen+actionsLen])
	if err != nil {
		return err
	}
	m.Actions = actions

	rest := data[packetOutFixedLen+actionsLen:]
	if bufferID == noBufferWire {
		m.Payload = Payload{Data: append([]byte(nil), rest...)}
	} else {
		v := bufferID
		m.Payload = Payload{BufferID: &v}
	}
	return nil
}
