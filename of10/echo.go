package of10

// Echo is the body of both EchoRequest and EchoReply: an opaque payload
// the receiver must return byte-for-byte.
type Echo struct {
	Data []byte
}

// Len returns the wire size of e.
func (e Echo) Len() int {
	return len(e.Data)
}

// MarshalBinary renders e as its wire form: its payload, unchanged.
func (e Echo) MarshalBinary() ([]byte, error) {
	return append([]byte(nil), e.Data...), nil
}

// UnmarshalBinary captures data as e's payload.
func (e *Echo) UnmarshalBinary(data []byte) error {
	e.Data = append([]byte(nil), data...)
	return nil
}

// Reply builds the EchoReply body that answers e: the identical payload.
func (e Echo) Reply() Echo {
	return Echo{Data: append([]byte(nil), e.Data...)}
}
