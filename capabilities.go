package keepalive

// Network is an opaque handle identifying a network. It is compared
// structurally (as a plain integer), not by identity of a heavier object
// graph, so it is usable directly as part of a map key alongside a slot.
type Network int64

// Transport is a bit position in a transport bitmask: bit i is set iff
// transport type i is present on the network.
type Transport uint

// Common transport bit positions. Only Cellular and Wifi are exercised by
// this module's own tests; the others exist so callers outside this package
// can build capability sets without redefining the encoding.
const (
	TransportCellular Transport = iota
	TransportWifi
	TransportBluetooth
	TransportEthernet
	TransportVPN
	TransportWifiAware
	TransportLowpan
	TransportSatellite
)

// CarrierIDUnknown is the sentinel forwarded verbatim when a capability set
// does not carry a carrier id.
const CarrierIDUnknown int32 = -1

// NetworkCapabilities is the subset of a network's capabilities the tracker
// needs at Start time: which transports apply, and (if known) the carrier
// operating the network.
type NetworkCapabilities struct {
	// Transports holds one entry per applied transport type.
	Transports []Transport
	// CarrierID is the carrier operating the network, or nil if indeterminate.
	// The tracker snapshots this once at Start and never re-derives it later,
	// even if the caller mutates the slice or struct afterward.
	CarrierID *int32
}

// transportBitmask packs Transports into the bit-per-transport encoding
// component D keys on.
func (c NetworkCapabilities) transportBitmask() uint64 {
	var mask uint64
	for _, t := range c.Transports {
		mask |= 1 << uint(t)
	}
	return mask
}

// carrierID resolves the capability set's carrier id, substituting the
// unknown sentinel when indeterminate.
func (c NetworkCapabilities) carrierID() int32 {
	if c.CarrierID == nil {
		return CarrierIDUnknown
	}
	return *c.CarrierID
}
