// Package constraint defines the layout constraints produced by pattern
// matching over a topology graph.
//
// Constraints are plain values. They reference devices by instance name only
// and hold no pointer back into the graph they were detected on, so a [Set]
// can outlive the graph, be cached, or be decoded from a file.
package constraint

import "fmt"

// Direction is the symmetry axis requested from the placer.
type Direction string

const (
	// Vertical asks for mirror symmetry about a vertical axis.
	Vertical Direction = "V"
	// Horizontal asks for mirror symmetry about a horizontal axis.
	Horizontal Direction = "H"
)

// Valid reports whether d is one of the known axes.
func (d Direction) Valid() bool {
	return d == Vertical || d == Horizontal
}

// RoleCurrentMirror tags groups found by the current-mirror detector.
const RoleCurrentMirror = "current_mirror"

// Symmetry places two devices mirror-symmetrically.
type Symmetry struct {
	Name      string
	Pair      [2]string
	Direction Direction
}

// NewSymmetry returns the symmetry constraint for a and b, named sym_<a>_<b>.
func NewSymmetry(a, b string, dir Direction) Symmetry {
	return Symmetry{
		Name:      fmt.Sprintf("sym_%s_%s", a, b),
		Pair:      [2]string{a, b},
		Direction: dir,
	}
}

// Group keeps its instances together as one block.
type Group struct {
	Name      string
	Instances []string
	Role      string
}

// NewMirrorGroup returns the current-mirror group for a and b, named cm_<a>_<b>.
func NewMirrorGroup(a, b string) Group {
	return Group{
		Name:      fmt.Sprintf("cm_%s_%s", a, b),
		Instances: []string{a, b},
		Role:      RoleCurrentMirror,
	}
}

// Set is a caller-owned collection of detected constraints.
//
// Detectors append to a Set; they never clear it. Running detection twice
// into the same Set therefore duplicates every constraint. Call Reset before
// re-running over a rebuilt graph.
type Set struct {
	Symmetry []Symmetry
	Groups   []Group
}

// AddSymmetry appends symmetry constraints in order.
func (s *Set) AddSymmetry(c ...Symmetry) { s.Symmetry = append(s.Symmetry, c...) }

// AddGroups appends group constraints in order.
func (s *Set) AddGroups(c ...Group) { s.Groups = append(s.Groups, c...) }

// Len returns the total number of constraints.
func (s *Set) Len() int { return len(s.Symmetry) + len(s.Groups) }

// Reset empties the set.
func (s *Set) Reset() {
	s.Symmetry = nil
	s.Groups = nil
}
