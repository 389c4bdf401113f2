// Package ofp10err defines the typed error hierarchy shared by the wire
// codec (package of10) and the connection dispatcher (package ofctrl):
// IO errors, protocol violations, and application-callback faults, per the
// three error kinds of the OpenFlow 1.0 controller's error handling design.
package ofp10err

import "fmt"

// ProtocolErrorKind is a closed enumeration of the fatal wire-contract
// violations the codec and dispatcher can detect.
type ProtocolErrorKind uint8

const (
	ErrShortHeader ProtocolErrorKind = iota
	ErrLengthMismatch
	ErrUnknownOpcode
	ErrUnexpectedOpcode
	ErrBadPortCode
	ErrBadSTPState
	ErrDuplicateFeatures
	ErrOutputToTable
)

func (k ProtocolErrorKind) String() string {
	switch k {
	case ErrShortHeader:
		return "short header"
	case ErrLengthMismatch:
		return "length mismatch"
	case ErrUnknownOpcode:
		return "unknown opcode"
	case ErrUnexpectedOpcode:
		return "unexpected opcode"
	case ErrBadPortCode:
		return "bad port code"
	case ErrBadSTPState:
		return "bad STP state"
	case ErrDuplicateFeatures:
		return "duplicate FeaturesReply"
	case ErrOutputToTable:
		return "Output(Table) not allowed in FlowMod"
	default:
		return "unknown protocol error"
	}
}

// ProtocolError reports a malformed or wire-contract-breaking message. Per
// the error handling design, it is always fatal to the connection it was
// raised on.
type ProtocolError struct {
	Kind   ProtocolErrorKind
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("ofp10: protocol error: %s", e.Kind)
	}
	return fmt.Sprintf("ofp10: protocol error: %s: %s", e.Kind, e.Detail)
}

// IOError wraps a transport-level failure: a closed connection, a write
// failure, or a short read that could not be completed.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("ofp10: io error during %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ApplicationError wraps a panic or returned error from an application
// callback. The dispatcher isolates the fault to the one connection it
// occurred on; it never propagates to other connections.
type ApplicationError struct {
	Cause error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("ofp10: application callback failed: %v", e.Cause)
}

func (e *ApplicationError) Unwrap() error {
	return e.Cause
}
