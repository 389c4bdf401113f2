package of10

import (
	"encoding/binary"
	"fmt"
)

// Version is the wire version byte for OpenFlow 1.0.
const Version uint8 = 0x01

// HeaderLength is the fixed size, in bytes, of an OpenFlow header.
const HeaderLength = 8

// Opcode identifies the type of an OpenFlow 1.0 message. It is a closed
// enumeration of the 22 message types defined by the wire protocol.
type Opcode uint8

const (
	TypeHello Opcode = iota
	TypeError
	TypeEchoRequest
	TypeEchoReply
	TypeVendor
	TypeFeaturesRequest
	TypeFeaturesReply
	TypeGetConfigRequest
	TypeGetConfigReply
	TypeSetConfig
	TypePacketIn
	TypeFlowRemoved
	TypePortStatus
	TypePacketOut
	TypeFlowMod
	TypePortMod
	TypeStatsRequest
	TypeStatsReply
	TypeBarrierRequest
	TypeBarrierReply
	TypeQueueGetConfigRequest
	TypeQueueGetConfigReply
)

var opcodeNames = map[Opcode]string{
	TypeHello:                 "OFPT_HELLO",
	TypeError:                 "OFPT_ERROR",
	TypeEchoRequest:           "OFPT_ECHO_REQUEST",
	TypeEchoReply:             "OFPT_ECHO_REPLY",
	TypeVendor:                "OFPT_VENDOR",
	TypeFeaturesRequest:       "OFPT_FEATURES_REQUEST",
	TypeFeaturesReply:         "OFPT_FEATURES_REPLY",
	TypeGetConfigRequest:      "OFPT_GET_CONFIG_REQUEST",
	TypeGetConfigReply:        "OFPT_GET_CONFIG_REPLY",
	TypeSetConfig:             "OFPT_SET_CONFIG",
	TypePacketIn:              "OFPT_PACKET_IN",
	TypeFlowRemoved:           "OFPT_FLOW_REMOVED",
	TypePortStatus:            "OFPT_PORT_STATUS",
	TypePacketOut:             "OFPT_PACKET_OUT",
	TypeFlowMod:               "OFPT_FLOW_MOD",
	TypePortMod:               "OFPT_PORT_MOD",
	TypeStatsRequest:          "OFPT_STATS_REQUEST",
	TypeStatsReply:            "OFPT_STATS_REPLY",
	TypeBarrierRequest:        "OFPT_BARRIER_REQUEST",
	TypeBarrierReply:          "OFPT_BARRIER_REPLY",
	TypeQueueGetConfigRequest: "OFPT_QUEUE_GET_CONFIG_REQUEST",
	TypeQueueGetConfigReply:   "OFPT_QUEUE_GET_CONFIG_REPLY",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OFPT_UNKNOWN(%d)", uint8(o))
}

// Valid reports whether o is one of the 22 opcodes defined by OpenFlow 1.0.
func (o Opcode) Valid() bool {
	_, ok := opcodeNames[o]
	return ok
}

// Header is the 8-byte fixed prefix present on every OpenFlow 1.0 message.
type Header struct {
	Version uint8
	Type    Opcode
	Length  uint16
	Xid     uint32
}

// NewHeader builds a header with the given fields.
func NewHeader(version uint8, typ Opcode, length uint16, xid uint32) Header {
	return Header{Version: version, Type: typ, Length: length, Xid: xid}
}

// Len returns the wire size of a Header: always HeaderLength.
func (h Header) Len() int {
	return HeaderLength
}

// MarshalBinary renders h as its 8-byte big-endian wire form.
func (h Header) MarshalBinary() ([]byte, error) {
	data := make([]byte, HeaderLength)
	data[0] = h.Version
	data[1] = uint8(h.Type)
	binary.BigEndian.PutUint16(data[2:4], h.Length)
	binary.BigEndian.PutUint32(data[4:8], h.Xid)
	return data, nil
}

// UnmarshalBinary parses the 8-byte header prefix from data.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderLength {
		return fmt.Errorf("of10: header requires %d bytes, got %d", HeaderLength, len(data))
	}
	h.Version = data[0]
	h.Type = Opcode(data[1])
	h.Length = binary.BigEndian.Uint16(data[2:4])
	h.Xid = binary.BigEndian.Uint32(data[4:8])
	return nil
}
