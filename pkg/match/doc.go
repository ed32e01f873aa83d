// Package match detects analog layout patterns in a topology graph.
//
// # Detectors
//
// [DiffPairs] finds differential pairs: two devices with the same model,
// width and length whose sources share a net and whose drains do not. Each
// pair becomes a [constraint.Symmetry].
//
// [CurrentMirrors] finds current mirrors: two devices sharing a gate net where
// at least one of them is diode-connected. Each pair becomes a
// [constraint.Group] named cm_<a>_<b>.
//
// Both detectors are read-only over the graph and return fresh slices. They
// are deterministic: the graph keeps devices in creation order and the
// detectors iterate in that order.
//
// # Accumulating
//
// [Detect] appends the output of both detectors to a caller-owned
// [constraint.Set]:
//
//	var set constraint.Set
//	match.Detect(g, &set)
//
// Detect never clears the set. Reset it before detecting again.
//
// # Geometry
//
// Width and length are compared as the literal netlist tokens, so "10u" and
// "10.0u" are different sizes. A device without geometry never pairs.
package match
