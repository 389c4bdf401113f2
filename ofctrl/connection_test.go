package ofctrl

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofswitch/of10ctrl/of10"
)

// recordingApp is a mock Application that records every callback it
// receives, guarded by a mutex since callbacks can in principle arrive
// from different connections' goroutines.
type recordingApp struct {
	mu             sync.Mutex
	connected      []Switch
	disconnected   []Switch
	packetIns      []of10.PacketIn
	onPacketInHook func(sw Switch, pi of10.PacketIn, send Sender)
}

func (a *recordingApp) OnSwitchConnected(sw Switch, send Sender) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connected = append(a.connected, sw)
}

func (a *recordingApp) OnSwitchDisconnected(sw Switch) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disconnected = append(a.disconnected, sw)
}

func (a *recordingApp) OnPacketIn(sw Switch, pi of10.PacketIn, send Sender) {
	a.mu.Lock()
	a.packetIns = append(a.packetIns, pi)
	hook := a.onPacketInHook
	a.mu.Unlock()
	if hook != nil {
		hook(sw, pi, send)
	}
}

func (a *recordingApp) connectedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.connected)
}

func (a *recordingApp) disconnectedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.disconnected)
}

func (a *recordingApp) packetInCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.packetIns)
}

// readMessageFrom reads one complete OpenFlow message off conn, for the
// test harness standing in for the switch side of the wire.
func readMessageFrom(t *testing.T, conn net.Conn) of10.Message {
	t.Helper()
	hdr := make([]byte, of10.HeaderLength)
	_, err := readFullTest(conn, hdr)
	require.NoError(t, err)

	var h of10.Header
	require.NoError(t, h.UnmarshalBinary(hdr))

	body := make([]byte, int(h.Length)-of10.HeaderLength)
	if len(body) > 0 {
		_, err := readFullTest(conn, body)
		require.NoError(t, err)
	}
	msg, err := of10.ParseMessage(h, body)
	require.NoError(t, err)
	return msg
}

func readFullTest(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeMessageTo(t *testing.T, conn net.Conn, xid uint32, typ of10.Opcode, body of10.Body) {
	t.Helper()
	data, err := of10.Marshal(xid, typ, body)
	require.NoError(t, err)
	_, err = conn.Write(data)
	require.NoError(t, err)
}

func TestConnectionHandshakeAndPacketIn(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	app := &recordingApp{}
	conn := NewConnection(serverConn, app, nil)

	done := make(chan error, 1)
	go func() { done <- conn.Serve() }()

	hello := readMessageFrom(t, clientConn)
	assert.Equal(t, of10.TypeHello, hello.Type)

	writeMessageTo(t, clientConn, 0x2A, of10.TypeHello, of10.Hello{})

	featuresReq := readMessageFrom(t, clientConn)
	assert.Equal(t, of10.TypeFeaturesRequest, featuresReq.Type)
	assert.EqualValues(t, 0x2A, featuresReq.Xid, "FeaturesRequest must echo the triggering Hello's xid")

	sf := of10.SwitchFeatures{DatapathID: 0x42, NumBuffers: 256, NumTables: 1}
	writeMessageTo(t, clientConn, 2, of10.TypeFeaturesReply, sf)

	require.Eventually(t, func() bool { return app.connectedCount() == 1 }, time.Second, time.Millisecond)
	assert.EqualValues(t, 0x42, app.connected[0].DatapathID)

	bufferID := uint32(7)
	pi := of10.PacketIn{BufferID: &bufferID, TotalLen: 64, InPort: 1, Reason: of10.PacketInAction, Data: []byte{0xde, 0xad}}
	writeMessageTo(t, clientConn, 3, of10.TypePacketIn, pi)

	require.Eventually(t, func() bool { return app.packetInCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []byte{0xde, 0xad}, app.packetIns[0].Data)

	clientConn.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after client close")
	}
	assert.Equal(t, 1, app.disconnectedCount())
}

func TestConnectionEchoRequestAnsweredDuringHandshake(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	app := &recordingApp{}
	conn := NewConnection(serverConn, app, nil)

	go func() { _ = conn.Serve() }()

	_ = readMessageFrom(t, clientConn) // Hello

	writeMessageTo(t, clientConn, 0x00000007, of10.TypeEchoRequest, of10.Echo{Data: []byte("ping")})

	reply := readMessageFrom(t, clientConn)
	assert.Equal(t, of10.TypeEchoReply, reply.Type)
	assert.EqualValues(t, 0x00000007, reply.Xid, "EchoReply must echo the triggering EchoRequest's xid")
	echo, ok := reply.Body.(of10.Echo)
	require.True(t, ok)
	assert.Equal(t, []byte("ping"), echo.Data)
}

func TestConnectionRejectsUnexpectedOpcodeDuringHandshake(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	app := &recordingApp{}
	conn := NewConnection(serverConn, app, nil)

	done := make(chan error, 1)
	go func() { done <- conn.Serve() }()

	_ = readMessageFrom(t, clientConn) // Hello

	// Send FeaturesReply before Hello: unexpected in stateAwaitingHello.
	writeMessageTo(t, clientConn, 5, of10.TypeFeaturesReply, of10.SwitchFeatures{DatapathID: 1})

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after protocol violation")
	}
	assert.Equal(t, 0, app.connectedCount())
	assert.Equal(t, 0, app.disconnectedCount())
}

func TestConnectionSendFlowModAndBarrier(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	app := &recordingApp{}
	app.onPacketInHook = func(sw Switch, pi of10.PacketIn, send Sender) {
		mod := of10.NewAddFlow(100, of10.MatchAll(), nil)
		require.NoError(t, send.SendFlowMod(mod))
		require.NoError(t, send.SendBarrierRequest())
	}
	conn := NewConnection(serverConn, app, nil)
	go func() { _ = conn.Serve() }()

	_ = readMessageFrom(t, clientConn) // Hello
	writeMessageTo(t, clientConn, 1, of10.TypeHello, of10.Hello{})
	_ = readMessageFrom(t, clientConn) // FeaturesRequest
	writeMessageTo(t, clientConn, 2, of10.TypeFeaturesReply, of10.SwitchFeatures{DatapathID: 1})

	writeMessageTo(t, clientConn, 3, of10.TypePacketIn, of10.PacketIn{TotalLen: 10, InPort: 1, Reason: of10.PacketInNoMatch})

	flowMod := readMessageFrom(t, clientConn)
	assert.Equal(t, of10.TypeFlowMod, flowMod.Type)

	barrier := readMessageFrom(t, clientConn)
	assert.Equal(t, of10.TypeBarrierRequest, barrier.Type)
}
