// Package graph provides the JSON wire format for topology graphs.
//
// The format is node-link: every device and net is a node, and every terminal
// connection is an edge labelled with its pin. Order is preserved in both
// directions, so a graph read back from JSON yields the same constraints as
// the graph it was written from.
//
//	{
//	  "nodes": [
//	    {"id": "M1", "kind": "device", "model": "nfet", "w": "1u", "l": "0.15u", "polarity": "nfet"},
//	    {"id": "out", "kind": "net"}
//	  ],
//	  "edges": [{"device": "M1", "net": "out", "pin": "D"}]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalGraph(g)            // topology → []byte
//	graph.WriteGraphFile(g, "ota_graph.json")   // topology → file
//	g, _ := graph.ReadGraphFile("ota_graph.json")
//	wire, _ := graph.UnmarshalGraph(data)        // []byte → Graph
//
// Device attributes are optional on input. A device without a polarity is
// classified as pfet, matching how the builder treats unmarked models.
package graph
