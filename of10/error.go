package of10

import (
	"encoding/binary"
	"fmt"
)

// errorMsgFixedLen is ErrorMsg's wire size up to, but not including, the
// trailing diagnostic data (typically the offending request, truncated).
const errorMsgFixedLen = 4

// ErrorMsg is the body of a switch's Error message: a type/code pair
// plus whatever bytes of the offending request the switch chose to echo.
type ErrorMsg struct {
	ErrorType uint16
	ErrorCode uint16
	Data      []byte
}

// Len returns the wire size of e, echoed data included.
func (e ErrorMsg) Len() int {
	return errorMsgFixedLen + len(e.Data)
}

// MarshalBinary renders e as its wire form.
func (e ErrorMsg) MarshalBinary() ([]byte, error) {
	data := make([]byte, errorMsgFixedLen+len(e.Data))
	binary.BigEndian.PutUint16(data[0:2], e.ErrorType)
	binary.BigEndian.PutUint16(data[2:4], e.ErrorCode)
	copy(data[errorMsgFixedLen:], e.Data)
	return data, nil
}

// UnmarshalBinary decodes e from its wire form.
func (e *ErrorMsg) UnmarshalBinary(data []byte) error {
	if len(data) < errorMsgFixedLen {
		return fmt.Errorf("of10: ErrorMsg requires at least %d bytes, got %d", errorMsgFixedLen, len(data))
	}
	e.ErrorType = binary.BigEndian.Uint16(data[0:2])
	e.ErrorCode = binary.BigEndian.Uint16(data[2:4])
	e.Data = append([]byte(nil), data[errorMsgFixedLen:]...)
	return nil
}
