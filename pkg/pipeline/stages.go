package pipeline

import (
	"bytes"

	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/errors"
	cio "github.com/matzehuels/analogtopo/pkg/io"
	"github.com/matzehuels/analogtopo/pkg/match"
	"github.com/matzehuels/analogtopo/pkg/netlist"
	"github.com/matzehuels/analogtopo/pkg/topology"
)

// BuildGraph builds a fresh topology graph from every scope of nl.
func BuildGraph(nl *netlist.Netlist, opts Options) (*topology.Graph, topology.Report) {
	g := topology.New()
	return g, Rebuild(g, nl, opts)
}

// Rebuild clears g and adds the device-family elements of every scope of nl,
// top level first. Rebuilding the same netlist always yields the same graph.
func Rebuild(g *topology.Graph, nl *netlist.Netlist, opts Options) topology.Report {
	opts.SetDefaults()
	g.Clear()

	b := opts.builder()
	var report topology.Report
	for _, scope := range nl.Scopes() {
		r := b.Add(g, scope.Elements)
		for _, s := range r.Skipped {
			opts.Logger.Warn("skipped device", "name", s.Name, "scope", scopeName(scope.Name), "reason", s.Reason)
		}
		report.Merge(r)
	}
	return report
}

func scopeName(name string) string {
	if name == "" {
		return "top"
	}
	return name
}

// DetectConstraints runs both matchers over g.
func DetectConstraints(g *topology.Graph, opts Options) *constraint.Set {
	opts.SetDefaults()
	set := &constraint.Set{}
	match.DetectWith(g, set, match.Options{Direction: opts.Direction})
	return set
}

// ExportConstraints encodes set as the constraint JSON array.
func ExportConstraints(set *constraint.Set) ([]byte, error) {
	var buf bytes.Buffer
	if err := cio.WriteJSON(set, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode constraints")
	}
	return buf.Bytes(), nil
}
