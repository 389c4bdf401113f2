package util

import "net"

// MACToBytes returns the 6-byte wire representation of a hardware address,
// zero-padding or truncating addr to exactly 6 bytes.
func MACToBytes(addr net.HardwareAddr) [6]byte {
	var out [6]byte
	copy(out[:], addr)
	return out
}

// BytesToMAC builds a net.HardwareAddr from a 6-byte wire field.
func BytesToMAC(b [6]byte) net.HardwareAddr {
	addr := make(net.HardwareAddr, 6)
	copy(addr, b[:])
	return addr
}
