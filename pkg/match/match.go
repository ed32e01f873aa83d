package match

import (
	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/topology"
)

// Options configures the detectors.
type Options struct {
	// Direction is the symmetry axis attached to every differential pair.
	// Defaults to constraint.Vertical when empty.
	Direction constraint.Direction
}

func (o Options) direction() constraint.Direction {
	if o.Direction == "" {
		return constraint.Vertical
	}
	return o.Direction
}

// Detect runs both detectors over g and appends the results to set:
// differential pairs first, then current mirrors.
func Detect(g *topology.Graph, set *constraint.Set) {
	DetectWith(g, set, Options{})
}

// DetectWith is Detect with explicit options.
func DetectWith(g *topology.Graph, set *constraint.Set, opts Options) {
	set.AddSymmetry(DiffPairsWith(g, opts)...)
	set.AddGroups(CurrentMirrors(g)...)
}

// DiffPairs finds differential pairs with a vertical symmetry axis.
func DiffPairs(g *topology.Graph) []constraint.Symmetry {
	return DiffPairsWith(g, Options{})
}

// DiffPairsWith finds differential pairs.
//
// Devices are visited in creation order. Each unpaired device is matched with
// the first later unpaired device that satisfies isDiffPair, and both are then
// retired. This is greedy first-match, not a maximum matching: every device
// appears in at most one pair.
func DiffPairsWith(g *topology.Graph, opts Options) []constraint.Symmetry {
	devices := g.Devices()
	dir := opts.direction()
	paired := make(map[string]bool, len(devices))

	var out []constraint.Symmetry
	for i, m1 := range devices {
		if paired[m1.ID] {
			continue
		}
		for _, m2 := range devices[i+1:] {
			if paired[m2.ID] {
				continue
			}
			if isDiffPair(g, m1, m2) {
				out = append(out, constraint.NewSymmetry(m1.ID, m2.ID, dir))
				paired[m1.ID] = true
				paired[m2.ID] = true
				break
			}
		}
	}
	return out
}

// isDiffPair requires identical model and geometry, a shared source net and
// distinct drain nets. Geometry is compared as written; an empty value never
// matches. A shared drain means parallel devices, not a pair.
func isDiffPair(g *topology.Graph, m1, m2 *topology.Node) bool {
	d1, d2 := m1.Device, m2.Device
	if d1.Model != d2.Model {
		return false
	}
	if d1.Width == "" || d1.Length == "" {
		return false
	}
	if d1.Width != d2.Width || d1.Length != d2.Length {
		return false
	}

	s1, ok1 := g.NetOnPin(m1.ID, topology.PinSource)
	s2, ok2 := g.NetOnPin(m2.ID, topology.PinSource)
	if !ok1 || !ok2 || s1 != s2 {
		return false
	}

	dr1, _ := g.NetOnPin(m1.ID, topology.PinDrain)
	dr2, _ := g.NetOnPin(m2.ID, topology.PinDrain)
	return dr1 != dr2
}

// CurrentMirrors finds current mirrors.
//
// Every unordered pair of devices is tested, in creation order, without a
// visited set. A reference device shared by several outputs therefore yields
// one group per output, and a device may appear in many groups.
func CurrentMirrors(g *topology.Graph) []constraint.Group {
	devices := g.Devices()

	var out []constraint.Group
	for i, m1 := range devices {
		for _, m2 := range devices[i+1:] {
			if isCurrentMirror(g, m1.ID, m2.ID) {
				out = append(out, constraint.NewMirrorGroup(m1.ID, m2.ID))
			}
		}
	}
	return out
}

// isCurrentMirror requires a shared gate net with at least one of the two
// devices diode-connected.
func isCurrentMirror(g *topology.Graph, m1, m2 string) bool {
	g1, ok1 := g.NetOnPin(m1, topology.PinGate)
	g2, ok2 := g.NetOnPin(m2, topology.PinGate)
	if !ok1 || !ok2 || g1 != g2 {
		return false
	}
	return g.IsDiodeConnected(m1) || g.IsDiodeConnected(m2)
}
