package of10

// RawMessage carries the body of a message type this package does not
// decode structurally: Vendor, GetConfigRequest/Reply, SetConfig,
// StatsRequest/Reply, PortMod, and QueueGetConfigRequest/Reply. These
// still round-trip through Header/Opcode validation; only their body
// layout is left to the application to interpret.
type RawMessage struct {
	Body []byte
}

// Len returns the wire size of the raw body.
func (r RawMessage) Len() int {
	return len(r.Body)
}

// MarshalBinary renders r as its wire form: the body, unchanged.
func (r RawMessage) MarshalBinary() ([]byte, error) {
	return append([]byte(nil), r.Body...), nil
}

// UnmarshalBinary captures data as r's body.
func (r *RawMessage) UnmarshalBinary(data []byte) error {
	r.Body = append([]byte(nil), data...)
	return nil
}
