package ofctrl

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/ofswitch/of10ctrl/of10"
	"github.com/ofswitch/of10ctrl/ofp10err"
	"github.com/ofswitch/of10ctrl/util"
)

// connState is the per-connection handshake phase. There is no shared
// state across connections: each Connection owns one goroutine, one
// net.Conn, and nothing else.
type connState int

const (
	stateAwaitingHello connState = iota
	stateAwaitingFeatures
	stateRunning
)

// Connection drives the synchronous read loop for one accepted TCP
// connection from a switch.
type Connection struct {
	conn net.Conn
	app  Application
	log  *logrus.Entry

	xid       uint32
	sw        Switch
	connected bool
}

// NewConnection wraps an accepted connection for Serve. log may be nil,
// in which case logrus's standard logger is used.
func NewConnection(conn net.Conn, app Application, log *logrus.Entry) *Connection {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Connection{
		conn: conn,
		app:  app,
		log:  log.WithField("remote", conn.RemoteAddr().String()),
	}
}

// Serve runs the connection's state machine until it closes or a
// protocol/IO error ends it. It blocks the calling goroutine for the
// lifetime of the connection and always closes conn before returning.
func (c *Connection) Serve() error {
	defer c.conn.Close()

	if err := c.sendHello(); err != nil {
		c.log.WithError(err).Warn("failed to send Hello")
		return err
	}

	state := stateAwaitingHello
	for {
		msg, err := c.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.log.Info("connection closed by peer")
				c.finish()
				return nil
			}
			c.log.WithError(err).Warn("connection terminated")
			c.finish()
			return err
		}

		next, err := c.dispatch(state, msg)
		if err != nil {
			var appErr *ofp10err.ApplicationError
			if errors.As(err, &appErr) {
				c.log.WithError(err).Error("application callback failed; isolating fault to this connection")
			} else {
				c.log.WithError(err).Warn("protocol error; closing connection")
			}
			c.finish()
			return err
		}
		state = next
	}
}

// finish calls OnSwitchDisconnected exactly once, only if the handshake
// ever completed, and never lets a panic there escape to the caller.
func (c *Connection) finish() {
	if !c.connected {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("panic", r).Error("panic in OnSwitchDisconnected")
		}
	}()
	c.app.OnSwitchDisconnected(c.sw)
}

func (c *Connection) readMessage() (of10.Message, error) {
	hdrBuf := make([]byte, of10.HeaderLength)
	if _, err := util.ReadFull(c.conn, hdrBuf); err != nil {
		return of10.Message{}, &ofp10err.IOError{Op: "read message header", Err: err}
	}

	var h of10.Header
	if err := h.UnmarshalBinary(hdrBuf); err != nil {
		return of10.Message{}, &ofp10err.ProtocolError{Kind: ofp10err.ErrShortHeader, Detail: err.Error()}
	}
	if int(h.Length) < of10.HeaderLength {
		return of10.Message{}, &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrLengthMismatch,
			Detail: fmt.Sprintf("header declares length %d, shorter than the header itself", h.Length),
		}
	}

	bodyLen := int(h.Length) - of10.HeaderLength
	body := make([]byte, bodyLen)
	if bodyLen > 0 {
		if _, err := util.ReadFull(c.conn, body); err != nil {
			return of10.Message{}, &ofp10err.IOError{Op: "read message body", Err: err}
		}
	}

	return of10.ParseMessage(h, body)
}

// dispatch advances the state machine by one message. Echo and Error
// messages are handled uniformly regardless of phase: a switch may send
// a keepalive or report an error at any point in the handshake.
func (c *Connection) dispatch(state connState, msg of10.Message) (connState, error) {
	switch body := msg.Body.(type) {
	case of10.Echo:
		if msg.Type == of10.TypeEchoRequest {
			if err := c.sendWithXid(msg.Xid, of10.TypeEchoReply, body.Reply()); err != nil {
				return state, &ofp10err.IOError{Op: "send EchoReply", Err: err}
			}
		}
		return state, nil

	case of10.ErrorMsg:
		c.log.WithFields(logrus.Fields{
			"error_type": body.ErrorType,
			"error_code": body.ErrorCode,
		}).Warn("switch reported an OpenFlow error")
		return state, nil
	}

	switch state {
	case stateAwaitingHello:
		return c.handleAwaitingHello(msg)
	case stateAwaitingFeatures:
		return c.handleAwaitingFeatures(msg)
	case stateRunning:
		return c.handleRunning(msg)
	default:
		return state, nil
	}
}

func (c *Connection) handleAwaitingHello(msg of10.Message) (connState, error) {
	if msg.Type != of10.TypeHello {
		return stateAwaitingHello, &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrUnexpectedOpcode,
			Detail: fmt.Sprintf("expected Hello, got %s", msg.Type),
		}
	}
	// Reuse the peer's Hello xid for FeaturesRequest, as a request/reply
	// pair rather than a freshly enumerated transaction.
	if err := c.sendWithXid(msg.Xid, of10.TypeFeaturesRequest, of10.FeaturesRequest{}); err != nil {
		return stateAwaitingHello, &ofp10err.IOError{Op: "send FeaturesRequest", Err: err}
	}
	return stateAwaitingFeatures, nil
}

func (c *Connection) handleAwaitingFeatures(msg of10.Message) (connState, error) {
	sf, ok := msg.Body.(of10.SwitchFeatures)
	if !ok {
		return stateAwaitingFeatures, &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrUnexpectedOpcode,
			Detail: fmt.Sprintf("expected FeaturesReply, got %s", msg.Type),
		}
	}
	c.sw = Switch{DatapathID: sf.DatapathID, Features: sf}
	c.connected = true

	if err := c.invoke(func() { c.app.OnSwitchConnected(c.sw, c) }, "OnSwitchConnected"); err != nil {
		return stateRunning, err
	}
	return stateRunning, nil
}

func (c *Connection) handleRunning(msg of10.Message) (connState, error) {
	switch body := msg.Body.(type) {
	case of10.SwitchFeatures:
		return stateRunning, &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrDuplicateFeatures,
			Detail: fmt.Sprintf("datapath %#x sent a second FeaturesReply", body.DatapathID),
		}
	case of10.PacketIn:
		if err := c.invoke(func() { c.app.OnPacketIn(c.sw, body, c) }, "OnPacketIn"); err != nil {
			return stateRunning, err
		}
	default:
		c.log.WithField("opcode", msg.Type).Debug("ignoring message type not acted on by this controller")
	}
	return stateRunning, nil
}

// invoke calls fn, converting a panic into an ApplicationError so a
// misbehaving callback only tears down this connection, never others.
func (c *Connection) invoke(fn func(), name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ofp10err.ApplicationError{Cause: fmt.Errorf("panic in %s: %v", name, r)}
		}
	}()
	fn()
	return nil
}

func (c *Connection) sendHello() error {
	data, err := of10.Marshal(0, of10.TypeHello, of10.Hello{})
	if err != nil {
		return err
	}
	if err := util.WriteFull(c.conn, data); err != nil {
		return &ofp10err.IOError{Op: "send Hello", Err: err}
	}
	return nil
}

// Send implements Sender. It mints a fresh transaction id: it is for
// messages the application originates on its own initiative (FlowMod,
// PacketOut, BarrierRequest), not for replies to a received message,
// which must instead echo the triggering message's xid via
// sendWithXid.
func (c *Connection) Send(typ of10.Opcode, body of10.Body) error {
	return c.sendWithXid(atomic.AddUint32(&c.xid, 1), typ, body)
}

// sendWithXid writes a message using the given transaction id, for
// replies that must echo the xid of the message they answer.
func (c *Connection) sendWithXid(xid uint32, typ of10.Opcode, body of10.Body) error {
	data, err := of10.Marshal(xid, typ, body)
	if err != nil {
		return err
	}
	if err := util.WriteFull(c.conn, data); err != nil {
		return &ofp10err.IOError{Op: "write message", Err: err}
	}
	return nil
}

// SendPacketOut implements Sender.
func (c *Connection) SendPacketOut(out of10.PacketOut) error {
	return c.Send(of10.TypePacketOut, out)
}

// SendFlowMod implements Sender.
func (c *Connection) SendFlowMod(mod of10.FlowMod) error {
	return c.Send(of10.TypeFlowMod, mod)
}

// SendBarrierRequest implements Sender.
func (c *Connection) SendBarrierRequest() error {
	return c.Send(of10.TypeBarrierRequest, of10.Barrier{})
}
