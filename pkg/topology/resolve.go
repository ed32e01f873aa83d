package topology

import "slices"

// NetOnPin returns the net connected to the given terminal of device.
//
// The device's neighbors are scanned in the order they were first connected
// and the first net whose edge bundle carries pin wins. For well-formed input
// each pin has exactly one edge; if a malformed device has the same pin on
// two nets, the earlier connection is returned.
//
// Returns "" and false if the device is unknown or has no edge with that pin.
func (g *Graph) NetOnPin(device string, pin Pin) (string, bool) {
	for _, neighbor := range g.adj[device] {
		if slices.Contains(g.pins[pairKey{device: device, net: neighbor}], pin) {
			return neighbor, true
		}
	}
	return "", false
}

// IsDiodeConnected reports whether the device's gate and drain sit on the
// same net.
func (g *Graph) IsDiodeConnected(device string) bool {
	gate, ok := g.NetOnPin(device, PinGate)
	if !ok {
		return false
	}
	drain, ok := g.NetOnPin(device, PinDrain)
	return ok && gate == drain
}
