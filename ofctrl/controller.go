// Package ofctrl drives the synchronous per-connection OpenFlow 1.0
// controller state machine: one blocking-I/O goroutine per TCP
// connection, handshaking Hello and FeaturesRequest/Reply before handing
// control to an Application callback.
package ofctrl

import (
	"github.com/ofswitch/of10ctrl/of10"
)

// Switch identifies the datapath on the other end of a Connection, once
// its FeaturesReply has been received.
type Switch struct {
	DatapathID uint64
	Features   of10.SwitchFeatures
}

// Sender is the subset of Connection an Application callback uses to
// talk back to the switch it was invoked for.
type Sender interface {
	// Send transmits an arbitrary message with a fresh transaction id.
	Send(typ of10.Opcode, body of10.Body) error
	// SendPacketOut is a convenience wrapper around Send for PacketOut.
	SendPacketOut(out of10.PacketOut) error
	// SendFlowMod is a convenience wrapper around Send for FlowMod.
	SendFlowMod(mod of10.FlowMod) error
	// SendBarrierRequest is a convenience wrapper around Send for
	// BarrierRequest.
	SendBarrierRequest() error
}

// Application is the controller logic driven by one or more Connections.
// A single Application value is shared across every connection; it must
// not retain per-connection state outside what Switch/Sender provide,
// since nothing serializes calls across different connections'
// goroutines.
type Application interface {
	// OnSwitchConnected fires once, after the handshake completes and
	// FeaturesReply has been received.
	OnSwitchConnected(sw Switch, send Sender)
	// OnSwitchDisconnected fires once when the connection ends, for any
	// reason (clean close, I/O error, protocol violation), provided
	// OnSwitchConnected had fired for it; a connection that never
	// completed the handshake gets no disconnect callback.
	OnSwitchDisconnected(sw Switch)
	// OnPacketIn fires for every PacketIn received after the handshake.
	OnPacketIn(sw Switch, pi of10.PacketIn, send Sender)
}
