// Package topology provides the device/net multigraph that layout constraint
// extraction runs on.
//
// # Overview
//
// A transistor netlist is modelled as a bipartite graph: every transistor is a
// device node, every wire is a net node, and each device terminal becomes an
// edge labelled with its pin role ([PinDrain], [PinGate], [PinSource]).
//
// The graph is a multigraph. A diode-connected transistor has its drain and
// gate on the same net, which yields two parallel edges with different labels;
// collapsing them would lose the information current-mirror detection needs.
//
// # Building
//
// A [Builder] consumes the [Element] values of one netlist scope at a time:
//
//	g := topology.New()
//	b := topology.NewBuilder()
//	report := b.Add(g, topElements)
//	for _, sub := range subcircuits {
//	    report.Merge(b.Add(g, sub))
//	}
//
// Only elements whose name starts with the device prefix ("M") are added.
// Devices with fewer than three terminals, or whose terminals cannot be
// resolved, are skipped without error and listed in [Report.Skipped].
//
// # Querying
//
// [Graph.NetOnPin] answers "which net sits on pin X of device D". It walks the
// device's neighbors in insertion order, so results are stable even for
// malformed devices with duplicate pin roles.
//
// # Ordering
//
// Devices, nets, edges and neighbor lists keep insertion order. Pattern
// matchers rely on this to produce the same constraints on every run.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use.
package topology
