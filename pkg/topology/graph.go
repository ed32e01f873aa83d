package topology

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddDevice] and [Graph.AddNet] when
	// the name is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddDevice] when a device with the
	// same instance name already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrKindConflict is returned when a name is already used by a node of the
	// other kind. A name can never denote both a device and a net.
	ErrKindConflict = errors.New("node ID already used by a node of another kind")

	// ErrUnknownDevice is returned by [Graph.AddEdge] when the device endpoint
	// does not exist or is not a device.
	ErrUnknownDevice = errors.New("unknown device")

	// ErrUnknownNet is returned by [Graph.AddEdge] when the net endpoint does
	// not exist or is not a net.
	ErrUnknownNet = errors.New("unknown net")
)

// Kind distinguishes the two node variants of the bipartite graph.
type Kind int

const (
	// KindDevice is a transistor instance.
	KindDevice Kind = iota
	// KindNet is an electrical connection point joining device terminals.
	KindNet
)

// String returns "device" or "net".
func (k Kind) String() string {
	if k == KindNet {
		return "net"
	}
	return "device"
}

// Polarity is the transistor flavour derived from the model name when the
// device is added. It is a naming heuristic and is advisory only: nothing in
// the matchers depends on it.
type Polarity int

const (
	// NFET marks models whose name contains the polarity marker.
	NFET Polarity = iota
	// PFET is assigned to every other model.
	PFET
)

// String returns "nfet" or "pfet".
func (p Polarity) String() string {
	if p == NFET {
		return "nfet"
	}
	return "pfet"
}

// Pin is the terminal role carried by an edge.
type Pin int

const (
	PinDrain Pin = iota
	PinGate
	PinSource
)

// Pins lists the terminal roles in netlist order (drain, gate, source).
var Pins = [...]Pin{PinDrain, PinGate, PinSource}

// String returns the single-letter pin label used in netlists and diagrams.
func (p Pin) String() string {
	switch p {
	case PinDrain:
		return "D"
	case PinGate:
		return "G"
	case PinSource:
		return "S"
	}
	return "?"
}

// Device holds the attributes of a transistor node. Width and Length keep the
// textual value from the netlist; an empty string means the value was not
// available and never equals another device's geometry for matching.
type Device struct {
	Model    string
	Width    string
	Length   string
	Polarity Polarity
}

// Node is a vertex of the topology graph. Device is non-nil exactly when Kind
// is KindDevice; net nodes carry no attributes.
type Node struct {
	ID     string
	Kind   Kind
	Device *Device
}

// IsDevice reports whether the node is a transistor.
func (n Node) IsDevice() bool { return n.Kind == KindDevice }

// IsNet reports whether the node is a net.
func (n Node) IsNet() bool { return n.Kind == KindNet }

// Edge connects one device terminal to one net.
type Edge struct {
	Device string
	Net    string
	Pin    Pin
}

// pairKey identifies the (device, net) endpoint pair of a multi-edge bundle.
type pairKey struct {
	device string
	net    string
}

// Graph is a bipartite device/net multigraph. Several edges may join the same
// device and net (a diode-connected transistor has its drain and gate edges on
// one net), and every edge keeps its pin label.
//
// Devices, nets, edges and neighbor lists are all kept in insertion order so
// that iteration, and therefore pattern matching, is deterministic.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes   map[string]*Node
	devices []*Node
	nets    []*Node
	edges   []Edge
	adj     map[string][]string // nodeID -> distinct neighbors, first-connection order
	pins    map[pairKey][]Pin   // (device, net) -> pin labels, insertion order
}

// New creates an empty Graph.
func New() *Graph {
	g := &Graph{}
	g.Clear()
	return g
}

// Clear resets the graph to empty. Rebuilding from a netlist always starts here.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.devices = nil
	g.nets = nil
	g.edges = nil
	g.adj = make(map[string][]string)
	g.pins = make(map[pairKey][]Pin)
}

// AddDevice adds a transistor node. Returns ErrInvalidNodeID if name is empty,
// ErrDuplicateNodeID if the device already exists, or ErrKindConflict if the
// name is already a net.
func (g *Graph) AddDevice(name string, d Device) error {
	if name == "" {
		return ErrInvalidNodeID
	}
	if n, exists := g.nodes[name]; exists {
		if n.IsNet() {
			return ErrKindConflict
		}
		return ErrDuplicateNodeID
	}
	node := &Node{ID: name, Kind: KindDevice, Device: &d}
	g.nodes[name] = node
	g.devices = append(g.devices, node)
	return nil
}

// AddNet adds a net node. Adding a net that already exists is a no-op.
// Returns ErrInvalidNodeID if name is empty or ErrKindConflict if the name
// is already a device.
func (g *Graph) AddNet(name string) error {
	if name == "" {
		return ErrInvalidNodeID
	}
	if n, exists := g.nodes[name]; exists {
		if n.IsDevice() {
			return ErrKindConflict
		}
		return nil
	}
	node := &Node{ID: name, Kind: KindNet}
	g.nodes[name] = node
	g.nets = append(g.nets, node)
	return nil
}

// AddEdge connects a device terminal to a net. A new edge is always inserted,
// even when an edge with the same endpoints and pin already exists.
func (g *Graph) AddEdge(device, net string, pin Pin) error {
	if n, ok := g.nodes[device]; !ok || !n.IsDevice() {
		return ErrUnknownDevice
	}
	if n, ok := g.nodes[net]; !ok || !n.IsNet() {
		return ErrUnknownNet
	}

	key := pairKey{device: device, net: net}
	if _, linked := g.pins[key]; !linked {
		g.adj[device] = append(g.adj[device], net)
		g.adj[net] = append(g.adj[net], device)
	}
	g.pins[key] = append(g.pins[key], pin)
	g.edges = append(g.edges, Edge{Device: device, Net: net, Pin: pin})
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not found.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Devices returns the device nodes in creation order. The slice is a copy;
// the nodes are shared with the graph.
func (g *Graph) Devices() []*Node { return slices.Clone(g.devices) }

// Nets returns the net nodes in creation order.
func (g *Graph) Nets() []*Node { return slices.Clone(g.nets) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Neighbors returns the distinct nodes adjacent to id, in the order they were
// first connected. Returns nil for unknown or isolated nodes.
func (g *Graph) Neighbors(id string) []string { return slices.Clone(g.adj[id]) }

// EdgesBetween returns the pin labels of every edge joining a and b, in
// insertion order. The arguments may be given in either order. Returns nil
// when the two nodes are not connected.
func (g *Graph) EdgesBetween(a, b string) []Pin {
	if pins, ok := g.pins[pairKey{device: a, net: b}]; ok {
		return slices.Clone(pins)
	}
	return slices.Clone(g.pins[pairKey{device: b, net: a}])
}

// NodeCount returns the number of nodes of both kinds.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// DeviceCount returns the number of device nodes.
func (g *Graph) DeviceCount() int { return len(g.devices) }

// NetCount returns the number of net nodes.
func (g *Graph) NetCount() int { return len(g.nets) }

// EdgeCount returns the number of edges, counting every parallel edge.
func (g *Graph) EdgeCount() int { return len(g.edges) }
