// Package netlist parses SPICE transistor netlists into elements for the
// topology builder.
//
// # Syntax
//
// The grammar covers what circuit decks used for layout extraction contain:
//
//	* OTA testbench                     <- title line
//	.subckt OTA in_p in_n out vdd gnd wn=10u
//	M1 node_x in_n tail gnd sky130_fd_pr__nfet_01v8 W={wn} L=0.15u
//	M2 out    in_p tail gnd sky130_fd_pr__nfet_01v8
//	+ W={wn} L=0.15u                    <- continuation
//	Iss tail gnd 200u                   ; inline comment
//	.ends OTA
//	.end
//
// Lines starting with "*" are comments, and ";" or "$" start an inline
// comment. A "+" line continues the previous statement. Directive and
// parameter names are case-insensitive; instance and node names are kept
// exactly as written.
//
// # Elements
//
// Every instance line becomes an [Element]. Positional words after the name
// are nodes, except the last one which is the model. key=value words are
// parameters; W and L give the device geometry. Values of the form {name}
// are replaced by the matching .param (or .subckt default) value.
//
// # Scopes
//
// [Netlist.Scopes] returns the top level followed by every subcircuit. A
// subcircuit that is never instantiated still contributes its devices, which
// is what layout extraction of a cell library needs.
//
// # Errors
//
// Syntax errors and unbalanced .subckt/.ends are reported with the
// INVALID_NETLIST code and a line number. Structurally odd but parseable
// elements, such as a transistor with two nodes, are not errors here; the
// topology builder decides what to do with them.
package netlist
