// Package pkg provides the core libraries for analogtopo constraint extraction.
//
// # Overview
//
// analogtopo reads a transistor-level SPICE netlist, builds a bipartite
// device/net multigraph and recognises two analog building blocks in it:
// differential pairs, which become symmetry constraints, and current mirrors,
// which become group constraints. The constraints are written as a JSON array
// for an analog placer.
//
// # Architecture
//
// The typical data flow:
//
//	SPICE netlist
//	     ↓
//	[netlist] package (participle grammar, subcircuits, parameters)
//	     ↓
//	[topology] package (device/net multigraph, pin lookup)
//	     ↓
//	[match] package (differential pairs, current mirrors)
//	     ↓
//	[constraint] package (Symmetry, Group, Set)
//	     ↓
//	[io] package (SymmetricBlocks / GroupBlocks JSON)
//
// [pipeline] runs these stages with caching, timing and hooks. [graph] and
// [render/nodelink] serialize and draw the topology graph for debugging.
//
// # Quick Start
//
//	import "github.com/matzehuels/analogtopo/pkg/pipeline"
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.ExtractFile(ctx, "ota.sp", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(res.JSON)
//
// Or run the stages by hand:
//
//	nl, _ := netlist.ParseFile("ota.sp")
//	g, report := pipeline.BuildGraph(nl, opts)
//	set := &constraint.Set{}
//	match.Detect(g, set)
//	cio.WriteJSON(set, os.Stdout)
//
// # Packages
//
//   - [netlist]: SPICE netlist parser
//   - [topology]: device/net multigraph and builder
//   - [match]: structural pattern matchers
//   - [constraint]: constraint values
//   - [io]: constraint JSON import/export
//   - [graph]: node-link JSON of topology graphs
//   - [render]: SVG conversion helpers
//   - [render/nodelink]: Graphviz rendering of topology graphs
//   - [pipeline]: orchestration
//   - [cache]: result cache
//   - [config]: TOML or YAML configuration
//   - [errors]: coded errors
//   - [observability]: pipeline, cache and server hooks
//   - [metrics]: Prometheus metrics behind the observability hooks
//   - [buildinfo]: version information
//
// [netlist]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/netlist
// [topology]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/topology
// [match]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/match
// [constraint]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/constraint
// [io]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/io
// [graph]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/metrics
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/analogtopo/pkg/buildinfo
package pkg
