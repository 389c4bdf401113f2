package of10

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/ofswitch/of10ctrl/ofp10err"
)

// Body is anything that can render itself as an OpenFlow message body.
// Unlike Header, Body has no single Go type: each Opcode names the
// concrete type ParseMessage will produce for it (see parseBody's
// dispatch table).
type Body interface {
	MarshalBinary() ([]byte, error)
}

// Hello is the empty body of the version-negotiation Hello message.
type Hello struct{}

// Len returns the wire size of a Hello body: always 0.
func (Hello) Len() int { return 0 }

// MarshalBinary renders a Hello as its (empty) wire form.
func (Hello) MarshalBinary() ([]byte, error) { return []byte{}, nil }

// UnmarshalBinary accepts any length, tolerating future Hello elements
// this package does not interpret.
func (h *Hello) UnmarshalBinary(data []byte) error {
	*h = Hello{}
	return nil
}

// FeaturesRequest is the empty body requesting a switch's SwitchFeatures.
type FeaturesRequest struct{}

// Len returns the wire size of a FeaturesRequest body: always 0.
func (FeaturesRequest) Len() int { return 0 }

// MarshalBinary renders a FeaturesRequest as its (empty) wire form.
func (FeaturesRequest) MarshalBinary() ([]byte, error) { return []byte{}, nil }

// UnmarshalBinary accepts any length.
func (r *FeaturesRequest) UnmarshalBinary(data []byte) error {
	*r = FeaturesRequest{}
	return nil
}

// Message is a complete OpenFlow 1.0 message: the transaction id that
// pairs requests with replies, the opcode naming Body's wire type, and
// the decoded body itself.
type Message struct {
	Xid  uint32
	Type Opcode
	Body Body
}

// MarshalBinary renders m as a complete wire message, header included.
func (m Message) MarshalBinary() ([]byte, error) {
	return Marshal(m.Xid, m.Type, m.Body)
}

// Marshal renders body as a complete wire message: an 8-byte header
// naming typ and xid, whose length field covers the header plus body,
// followed by body's own encoding.
func Marshal(xid uint32, typ Opcode, body Body) ([]byte, error) {
	payload, err := body.MarshalBinary()
	if err != nil {
		return nil, err
	}
	total := HeaderLength + len(payload)
	if total > 0xffff {
		return nil, fmt.Errorf("of10: message body too large: %d bytes", len(payload))
	}
	header := NewHeader(Version, typ, uint16(total), xid)
	data, err := header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(data, payload...), nil
}

// ParseMessage decodes a message body given its already-parsed header and
// the header-stripped body bytes, and returns the assembled Message.
// body must be exactly header.Length - HeaderLength bytes, the quantum
// the connection dispatcher reads after the header.
func ParseMessage(header Header, body []byte) (Message, error) {
	if int(header.Length)-HeaderLength != len(body) {
		return Message{}, &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrLengthMismatch,
			Detail: fmt.Sprintf("header declares length %d but body is %d bytes", header.Length, len(body)),
		}
	}

	decoded, err := parseBody(header.Type, body)
	if err != nil {
		klog.ErrorS(err, "Failed to decode message body", "type", header.Type, "xid", header.Xid, "data", body)
		return Message{}, err
	}
	if klogV := klog.V(5); klogV.Enabled() {
		klogV.InfoS("Decoded message", "type", header.Type, "xid", header.Xid, "length", header.Length)
	}
	return Message{Xid: header.Xid, Type: header.Type, Body: decoded}, nil
}

func parseBody(typ Opcode, body []byte) (Body, error) {
	switch typ {
	case TypeHello:
		var b Hello
		_ = b.UnmarshalBinary(body)
		return b, nil

	case TypeError:
		var b ErrorMsg
		if err := b.UnmarshalBinary(body); err != nil {
			return nil, err
		}
		return b, nil

	case TypeEchoRequest, TypeEchoReply:
		var b Echo
		_ = b.UnmarshalBinary(body)
		return b, nil

	case TypeVendor, TypeGetConfigRequest, TypeGetConfigReply, TypeSetConfig,
		TypePortMod, TypeStatsRequest, TypeStatsReply,
		TypeQueueGetConfigRequest, TypeQueueGetConfigReply:
		var b RawMessage
		_ = b.UnmarshalBinary(body)
		return b, nil

	case TypeFeaturesRequest:
		var b FeaturesRequest
		_ = b.UnmarshalBinary(body)
		return b, nil

	case TypeFeaturesReply:
		var b SwitchFeatures
		if err := b.UnmarshalBinary(body); err != nil {
			return nil, err
		}
		return b, nil

	case TypePacketIn:
		var b PacketIn
		if err := b.UnmarshalBinary(body); err != nil {
			return nil, err
		}
		return b, nil

	case TypeFlowRemoved:
		var b FlowRemoved
		if err := b.UnmarshalBinary(body); err != nil {
			return nil, err
		}
		return b, nil

	case TypePortStatus:
		var b PortStatus
		if err := b.UnmarshalBinary(body); err != nil {
			return nil, err
		}
		return b, nil

	case TypePacketOut:
		var b PacketOut
		if err := b.UnmarshalBinary(body); err != nil {
			return nil, err
		}
		return b, nil

	case TypeFlowMod:
		var b FlowMod
		if err := b.UnmarshalBinary(body); err != nil {
			return nil, err
		}
		return b, nil

	case TypeBarrierRequest, TypeBarrierReply:
		var b Barrier
		_ = b.UnmarshalBinary(body)
		return b, nil

	default:
		return nil, &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrUnknownOpcode,
			Detail: fmt.Sprintf("opcode %d", uint8(typ)),
		}
	}
}
