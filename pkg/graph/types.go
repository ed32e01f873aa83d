package graph

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/analogtopo/pkg/topology"
)

// Node kinds.
const (
	KindDevice = "device"
	KindNet    = "net"
)

// Graph is the serialized form of a topology graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a device or a net. The attribute fields are set for devices only.
type Node struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Model    string `json:"model,omitempty"`
	Width    string `json:"w,omitempty"`
	Length   string `json:"l,omitempty"`
	Polarity string `json:"polarity,omitempty"`
}

// IsDevice reports whether n is a transistor.
func (n *Node) IsDevice() bool { return n.Kind == KindDevice }

// Edge connects one device terminal to one net.
type Edge struct {
	Device string `json:"device"`
	Net    string `json:"net"`
	Pin    string `json:"pin"`
}

// FromTopology converts g to its serialization format. Nodes list devices
// then nets, each in insertion order; edges keep insertion order.
func FromTopology(g *topology.Graph) Graph {
	out := Graph{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Devices() {
		out.Nodes = append(out.Nodes, Node{
			ID:       n.ID,
			Kind:     KindDevice,
			Model:    n.Device.Model,
			Width:    n.Device.Width,
			Length:   n.Device.Length,
			Polarity: n.Device.Polarity.String(),
		})
	}
	for _, n := range g.Nets() {
		out.Nodes = append(out.Nodes, Node{ID: n.ID, Kind: KindNet})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{Device: e.Device, Net: e.Net, Pin: e.Pin.String()})
	}
	return out
}

// ToTopology rebuilds a topology graph. It fails on unknown kinds or pins,
// duplicate devices and edges whose endpoints are not declared nodes.
func ToTopology(gj Graph) (*topology.Graph, error) {
	g := topology.New()

	for _, nj := range gj.Nodes {
		var err error
		switch nj.Kind {
		case KindDevice:
			err = g.AddDevice(nj.ID, topology.Device{
				Model:    nj.Model,
				Width:    nj.Width,
				Length:   nj.Length,
				Polarity: parsePolarity(nj.Polarity),
			})
		case KindNet:
			err = g.AddNet(nj.ID)
		default:
			err = fmt.Errorf("unknown kind %q", nj.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}

	for _, ej := range gj.Edges {
		pin, err := parsePin(ej.Pin)
		if err != nil {
			return nil, fmt.Errorf("edge %s-%s: %w", ej.Device, ej.Net, err)
		}
		if err := g.AddEdge(ej.Device, ej.Net, pin); err != nil {
			return nil, fmt.Errorf("add edge %s-%s: %w", ej.Device, ej.Net, err)
		}
	}

	return g, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

func parsePolarity(s string) topology.Polarity {
	if s == topology.NFET.String() {
		return topology.NFET
	}
	return topology.PFET
}

func parsePin(s string) (topology.Pin, error) {
	for _, p := range topology.Pins {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown pin %q", s)
}
