package of10

// Barrier is the (empty) body shared by BarrierRequest and BarrierReply.
// A switch must finish processing every message received before the
// barrier before it handles anything after, and must not answer the
// barrier itself until that processing completes.
type Barrier struct{}

// Len returns the wire size of a Barrier body: always 0.
func (Barrier) Len() int {
	return 0
}

// MarshalBinary renders b as its (empty) wire form.
func (Barrier) MarshalBinary() ([]byte, error) {
	return []byte{}, nil
}

// UnmarshalBinary accepts any length, including zero, since switches
// that pad the body are still conforming.
func (b *Barrier) UnmarshalBinary(data []byte) error {
	*b = Barrier{}
	return nil
}
