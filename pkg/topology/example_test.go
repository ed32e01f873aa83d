package topology_test

import (
	"fmt"

	"github.com/matzehuels/analogtopo/pkg/topology"
)

func ExampleGraph_diodeConnection() {
	// A diode-connected PMOS load: drain and gate share node_x.
	g := topology.New()
	_ = g.AddDevice("M3", topology.Device{Model: "sky130_fd_pr__pfet_01v8", Polarity: topology.PFET})
	_ = g.AddNet("node_x")
	_ = g.AddNet("vdd")
	_ = g.AddEdge("M3", "node_x", topology.PinDrain)
	_ = g.AddEdge("M3", "node_x", topology.PinGate)
	_ = g.AddEdge("M3", "vdd", topology.PinSource)

	fmt.Println("Neighbors:", g.Neighbors("M3"))
	fmt.Println("Pins on node_x:", g.EdgesBetween("M3", "node_x"))
	fmt.Println("Diode:", g.IsDiodeConnected("M3"))
	// Output:
	// Neighbors: [node_x vdd]
	// Pins on node_x: [D G]
	// Diode: true
}

func ExampleGraph_NetOnPin() {
	g := topology.New()
	_ = g.AddDevice("M1", topology.Device{Model: "nfet"})
	for _, net := range []string{"out", "in", "tail"} {
		_ = g.AddNet(net)
	}
	_ = g.AddEdge("M1", "out", topology.PinDrain)
	_ = g.AddEdge("M1", "in", topology.PinGate)
	_ = g.AddEdge("M1", "tail", topology.PinSource)

	src, ok := g.NetOnPin("M1", topology.PinSource)
	fmt.Println(src, ok)
	// Output:
	// tail true
}
