package match

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/topology"
)

// Small value pools make collisions (shared nets, equal geometry) frequent.
var (
	models  = []string{nfet, pfet}
	widths  = []string{"1u", "2u", "1.0u", ""}
	lengths = []string{"0.15u", "0.5u", "0.15u", ""}
	netPool = []string{"a", "b", "tail", "vdd"}
)

const fieldsPerDevice = 6

// devicesFrom turns a flat slice of small integers into transistors, six
// integers per device: model, width, length, drain, gate, source.
func devicesFrom(xs []int) []mos {
	var devs []mos
	for i := 0; i+fieldsPerDevice <= len(xs); i += fieldsPerDevice {
		f := xs[i : i+fieldsPerDevice]
		devs = append(devs, mos{
			name:  fmt.Sprintf("M%d", len(devs)+1),
			model: models[f[0]%len(models)],
			w:     widths[f[1]%len(widths)],
			l:     lengths[f[2]%len(lengths)],
			d:     netPool[f[3]%len(netPool)],
			g:     netPool[f[4]%len(netPool)],
			s:     netPool[f[5]%len(netPool)],
		})
	}
	return devs
}

func deviceAttrs(g *topology.Graph, id string) *topology.Device {
	n, _ := g.Node(id)
	return n.Device
}

func net(g *topology.Graph, id string, pin topology.Pin) string {
	n, _ := g.NetOnPin(id, pin)
	return n
}

func TestMatcherProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	netlist := gen.SliceOf(gen.IntRange(0, 3))

	properties.Property("symmetry pairs match model, geometry and source but not drain", prop.ForAll(
		func(xs []int) bool {
			g := build(devicesFrom(xs)...)
			for _, s := range DiffPairs(g) {
				a, b := s.Pair[0], s.Pair[1]
				da, db := deviceAttrs(g, a), deviceAttrs(g, b)
				if da.Model != db.Model || da.Width != db.Width || da.Length != db.Length {
					return false
				}
				if net(g, a, topology.PinSource) != net(g, b, topology.PinSource) {
					return false
				}
				if net(g, a, topology.PinDrain) == net(g, b, topology.PinDrain) {
					return false
				}
			}
			return true
		},
		netlist,
	))

	properties.Property("no device is in two symmetry pairs", prop.ForAll(
		func(xs []int) bool {
			seen := map[string]bool{}
			for _, s := range DiffPairs(build(devicesFrom(xs)...)) {
				for _, id := range s.Pair {
					if seen[id] {
						return false
					}
					seen[id] = true
				}
			}
			return true
		},
		netlist,
	))

	properties.Property("different length never pairs", prop.ForAll(
		func(xs []int) bool {
			g := build(devicesFrom(xs)...)
			for _, s := range DiffPairs(g) {
				if deviceAttrs(g, s.Pair[0]).Length != deviceAttrs(g, s.Pair[1]).Length {
					return false
				}
			}
			return true
		},
		netlist,
	))

	properties.Property("every mirror shares a gate with a diode-connected device", prop.ForAll(
		func(xs []int) bool {
			g := build(devicesFrom(xs)...)
			for _, grp := range CurrentMirrors(g) {
				a, b := grp.Instances[0], grp.Instances[1]
				if net(g, a, topology.PinGate) != net(g, b, topology.PinGate) {
					return false
				}
				if !g.IsDiodeConnected(a) && !g.IsDiodeConnected(b) {
					return false
				}
			}
			return true
		},
		netlist,
	))

	properties.Property("detection is deterministic across rebuilds", prop.ForAll(
		func(xs []int) bool {
			devs := devicesFrom(xs)

			var first, second constraint.Set
			Detect(build(devs...), &first)
			Detect(build(devs...), &second)
			return reflect.DeepEqual(first, second)
		},
		netlist,
	))

	properties.TestingRun(t)
}
