package netlist

import (
	"fmt"
	"strings"

	"github.com/matzehuels/analogtopo/pkg/topology"
)

// Element is one instance line. For the "M1 d g s b nfet W=1u L=0.15u" form,
// every positional word after the name except the last is a node and the last
// is the model. Parameter keys are lower-cased; values are kept as written,
// after substituting simple {name} references to .param values.
type Element struct {
	Name   string
	Model  string
	Nodes  []string
	Params map[string]string
	Line   int
}

var _ topology.Element = Element{}

// InstanceName returns the element name, e.g. "M1".
func (e Element) InstanceName() string { return e.Name }

// ModelName returns the model token.
func (e Element) ModelName() string { return e.Model }

// Terminals returns the connected nodes in netlist order.
func (e Element) Terminals() ([]string, error) { return e.Nodes, nil }

// Geometry returns the W and L parameter values, or empty strings when they
// are absent. A value that is still an unresolved expression is an error.
func (e Element) Geometry() (width, length string, err error) {
	width, length = e.Params["w"], e.Params["l"]
	for _, v := range []string{width, length} {
		if isExpression(v) {
			return "", "", fmt.Errorf("%s: unresolved expression %s", e.Name, v)
		}
	}
	return width, length, nil
}

// Subcircuit is a .subckt ... .ends block.
type Subcircuit struct {
	Name     string
	Ports    []string
	Params   map[string]string
	Elements []Element
	Line     int
}

// Directive is a dot command the parser does not interpret itself
// (.model, .include, .option, ...).
type Directive struct {
	Name string
	Args []string
	Line int
}

// Netlist is a parsed SPICE deck.
type Netlist struct {
	Title       string
	Elements    []Element
	Subcircuits []Subcircuit
	Params      map[string]string
	Directives  []Directive
}

// Scope is a named list of elements handed to the graph builder. The top
// level has an empty name.
type Scope struct {
	Name     string
	Elements []topology.Element
}

// Scopes returns the top-level elements followed by each subcircuit in file
// order. Every subcircuit is included whether or not anything instantiates it.
func (n *Netlist) Scopes() []Scope {
	scopes := make([]Scope, 0, len(n.Subcircuits)+1)
	scopes = append(scopes, Scope{Elements: asTopology(n.Elements)})
	for _, s := range n.Subcircuits {
		scopes = append(scopes, Scope{Name: s.Name, Elements: asTopology(s.Elements)})
	}
	return scopes
}

// ElementCount returns the number of elements across all scopes.
func (n *Netlist) ElementCount() int {
	count := len(n.Elements)
	for _, s := range n.Subcircuits {
		count += len(s.Elements)
	}
	return count
}

func asTopology(elems []Element) []topology.Element {
	out := make([]topology.Element, len(elems))
	for i, e := range elems {
		out[i] = e
	}
	return out
}

func isExpression(v string) bool {
	return strings.HasPrefix(v, "{") || strings.HasPrefix(v, "'")
}
