package of10

import (
	"encoding/binary"
	"fmt"

	"github.com/ofswitch/of10ctrl/ofp10err"
	"github.com/ofswitch/of10ctrl/util"
)

// switchFeaturesFixedLen is the size of SwitchFeatures up to, but not
// including, the trailing PortDesc array.
const switchFeaturesFixedLen = 24

// Capabilities is ofp_capabilities: the switch-wide features a datapath
// advertises in its FeaturesReply.
type Capabilities struct {
	FlowStats  bool
	TableStats bool
	PortStats  bool
	STP        bool
	IPReasm    bool
	QueueStats bool
	ArpMatchIP bool
}

func (c Capabilities) wire() uint32 {
	var w uint64
	bits := []struct {
		set bool
		bit uint
	}{
		{c.FlowStats, 0}, {c.TableStats, 1}, {c.PortStats, 2}, {c.STP, 3},
		{c.IPReasm, 5}, {c.QueueStats, 6}, {c.ArpMatchIP, 7},
	}
	for _, b := range bits {
		if b.set {
			w = util.SetBit(b.bit, w)
		}
	}
	return uint32(w)
}

func parseCapabilities(v uint32) Capabilities {
	w := uint64(v)
	return Capabilities{
		FlowStats:  util.TestBit(0, w),
		TableStats: util.TestBit(1, w),
		PortStats:  util.TestBit(2, w),
		STP:        util.TestBit(3, w),
		IPReasm:    util.TestBit(5, w),
		QueueStats: util.TestBit(6, w),
		ArpMatchIP: util.TestBit(7, w),
	}
}

// SupportedActions is the actions bitmap of ofp_switch_features: one bit
// per ofp_action_type the datapath supports, keyed by that type's wire
// value (see action.go's actionType* constants).
type SupportedActions struct {
	Output     bool
	SetVlanVID bool
	SetVlanPCP bool
	StripVlan  bool
	SetDlSrc   bool
	SetDlDst   bool
	SetNwSrc   bool
	SetNwDst   bool
	SetNwTos   bool
	SetTpSrc   bool
	SetTpDst   bool
	Enqueue    bool
}

func (a SupportedActions) wire() uint32 {
	var w uint64
	bits := []struct {
		set bool
		bit uint
	}{
		{a.Output, uint(actionTypeOutput)}, {a.SetVlanVID, uint(actionTypeSetVlanVID)},
		{a.SetVlanPCP, uint(actionTypeSetVlanPCP)}, {a.StripVlan, uint(actionTypeStripVlan)},
		{a.SetDlSrc, uint(actionTypeSetDlSrc)}, {a.SetDlDst, uint(actionTypeSetDlDst)},
		{a.SetNwSrc, uint(actionTypeSetNwSrc)}, {a.SetNwDst, uint(actionTypeSetNwDst)},
		{a.SetNwTos, uint(actionTypeSetNwTos)}, {a.SetTpSrc, uint(actionTypeSetTpSrc)},
		{a.SetTpDst, uint(actionTypeSetTpDst)}, {a.Enqueue, uint(actionTypeEnqueue)},
	}
	for _, b := range bits {
		if b.set {
			w = util.SetBit(b.bit, w)
		}
	}
	return uint32(w)
}

func parseSupportedActions(v uint32) SupportedActions {
	w := uint64(v)
	return SupportedActions{
		Output:     util.TestBit(uint(actionTypeOutput), w),
		SetVlanVID: util.TestBit(uint(actionTypeSetVlanVID), w),
		SetVlanPCP: util.TestBit(uint(actionTypeSetVlanPCP), w),
		StripVlan:  util.TestBit(uint(actionTypeStripVlan), w),
		SetDlSrc:   util.TestBit(uint(actionTypeSetDlSrc), w),
		SetDlDst:   util.TestBit(uint(actionTypeSetDlDst), w),
		SetNwSrc:   util.TestBit(uint(actionTypeSetNwSrc), w),
		SetNwDst:   util.TestBit(uint(actionTypeSetNwDst), w),
		SetNwTos:   util.TestBit(uint(actionTypeSetNwTos), w),
		SetTpSrc:   util.TestBit(uint(actionTypeSetTpSrc), w),
		SetTpDst:   util.TestBit(uint(actionTypeSetTpDst), w),
		Enqueue:    util.TestBit(uint(actionTypeEnqueue), w),
	}
}

// SwitchFeatures is the body of FeaturesReply: a datapath's identity,
// table/buffer limits, capabilities, supported actions, and port list.
type SwitchFeatures struct {
	DatapathID   uint64
	NumBuffers   uint32
	NumTables    uint8
	Capabilities Capabilities
	Actions      SupportedActions
	Ports        []PortDesc
}

// Len returns the wire size of f, ports included.
func (f SwitchFeatures) Len() int {
	return switchFeaturesFixedLen + len(f.Ports)*PortDescLength
}

// MarshalBinary renders f as its wire form.
func (f SwitchFeatures) MarshalBinary() ([]byte, error) {
	data := make([]byte, f.Len())
	binary.BigEndian.PutUint64(data[0:8], f.DatapathID)
	binary.BigEndian.PutUint32(data[8:12], f.NumBuffers)
	data[12] = f.NumTables
	binary.BigEndian.PutUint32(data[16:20], f.Capabilities.wire())
	binary.BigEndian.PutUint32(data[20:24], f.Actions.wire())

	off := switchFeaturesFixedLen
	for _, p := range f.Ports {
		pd, err := p.MarshalBinary()
		if err != nil {
			return nil, err
		}
		copy(data[off:off+PortDescLength], pd)
		off += PortDescLength
	}
	return data, nil
}

// UnmarshalBinary decodes f from its wire form. The number of trailing
// ports is derived from the body length, which must divide evenly by
// PortDescLength once the fixed prefix is removed.
func (f *SwitchFeatures) UnmarshalBinary(data []byte) error {
	if len(data) < switchFeaturesFixedLen {
		return fmt.Errorf("of10: SwitchFeatures requires at least %d bytes, got %d", switchFeaturesFixedLen, len(data))
	}
	rest := len(data) - switchFeaturesFixedLen
	if rest%PortDescLength != 0 {
		return &ofp10err.ProtocolError{
			Kind:   ofp10err.ErrLengthMismatch,
			Detail: fmt.Sprintf("SwitchFeatures trailing %d bytes is not a whole number of ports", rest),
		}
	}

	f.DatapathID = binary.BigEndian.Uint64(data[0:8])
	f.NumBuffers = binary.BigEndian.Uint32(data[8:12])
	f.NumTables = data[12]
	f.Capabilities = parseCapabilities(binary.BigEndian.Uint32(data[16:20]))
	f.Actions = parseSupportedActions(binary.BigEndian.Uint32(data[20:24]))

	n := rest / PortDescLength
	f.Ports = nil
	if n > 0 {
		f.Ports = make([]PortDesc, n)
	}
	off := switchFeaturesFixedLen
	for i := 0; i < n; i++ {
		if err := f.Ports[i].UnmarshalBinary(data[off : off+PortDescLength]); err != nil {
			return err
		}
		off += PortDescLength
	}
	return nil
}
