// Package nodelink draws topology graphs as node-link diagrams.
//
// # Overview
//
// Devices appear as rounded boxes and nets as ellipses. Each device terminal
// is one undirected edge labelled with its pin (D, G or S), so parallel edges
// are visible: a diode-connected transistor has a D and a G edge to the same
// net. Devices that take part in detected constraints can be highlighted.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true, Highlight: set})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
