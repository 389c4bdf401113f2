package protocol

import "net"

// TpKind discriminates a dissected Packet's transport-layer payload.
type TpKind uint8

const (
	TpNone TpKind = iota
	TpTCP
	TpUDP
	TpICMP
	TpUnparsable
)

// NwKind discriminates a dissected Packet's network-layer payload.
type NwKind uint8

const (
	NwNone NwKind = iota
	NwIPv4
	NwARP
	NwUnparsable
)

// Packet is a fully dissected Ethernet frame: the link-layer addressing
// and VLAN tag, plus whichever of IPv4/ARP (and, below IPv4, TCP/UDP/
// ICMP) the frame actually carries. Dissection fails only when the frame
// is too short for its Ethernet header; past that point an
// unrecognized EtherType or IP protocol number is recorded as
// NwUnparsable/TpUnparsable with the raw bytes preserved, mirroring a
// switch's own tolerance of traffic it cannot classify.
type Packet struct {
	DlSrc      net.HardwareAddr
	DlDst      net.HardwareAddr
	DlVLAN     bool
	DlVLANID   uint16
	DlVLANPCP  uint8

	NwKind NwKind
	IPv4   *IPv4
	ARP    *ARP

	TpKind TpKind
	TCP    *TCP
	UDP    *UDP
	ICMP   *ICMP

	Raw []byte
}

// DissectEthernet parses a raw Ethernet frame into a Packet, descending
// into IPv4/ARP and, for IPv4, TCP/UDP/ICMP as far as the payload allows.
func DissectEthernet(data []byte) (*Packet, error) {
	eth := &Ethernet{}
	if err := eth.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	p := &Packet{
		DlSrc:     eth.HWSrc,
		DlDst:     eth.HWDst,
		DlVLAN:    eth.VLANTagged,
		DlVLANID:  eth.VLANID,
		DlVLANPCP: eth.VLANPCP,
	}

	switch eth.EthType {
	case EthTypeIPv4:
		ip := &IPv4{}
		if err := ip.UnmarshalBinary(eth.Data); err != nil {
			p.NwKind = NwUnparsable
			p.Raw = eth.Data
			return p, nil
		}
		p.NwKind = NwIPv4
		p.IPv4 = ip
		dissectTransport(p, ip)

	case EthTypeARP:
		arp := new(ARP)
		if err := arp.UnmarshalBinary(eth.Data); err != nil {
			p.NwKind = NwUnparsable
			p.Raw = eth.Data
			return p, nil
		}
		p.NwKind = NwARP
		p.ARP = arp

	default:
		p.NwKind = NwUnparsable
		p.Raw = eth.Data
	}

	return p, nil
}

func dissectTransport(p *Packet, ip *IPv4) {
	switch ip.Proto {
	case IPProtoTCP:
		t := NewTCP()
		if err := t.UnmarshalBinary(ip.Data); err != nil {
			p.TpKind = TpUnparsable
			p.Raw = ip.Data
			return
		}
		p.TpKind = TpTCP
		p.TCP = t

	case IPProtoUDP:
		u := &UDP{}
		if err := u.UnmarshalBinary(ip.Data); err != nil {
			p.TpKind = TpUnparsable
			p.Raw = ip.Data
			return
		}
		p.TpKind = TpUDP
		p.UDP = u

	case IPProtoICMP:
		m := &ICMP{}
		if err := m.UnmarshalBinary(ip.Data); err != nil {
			p.TpKind = TpUnparsable
			p.Raw = ip.Data
			return
		}
		p.TpKind = TpICMP
		p.ICMP = m

	default:
		p.TpKind = TpUnparsable
		p.Raw = ip.Data
	}
}
