package match

import (
	"reflect"
	"testing"

	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/topology"
)

// mos is a three-terminal transistor used to assemble test graphs.
type mos struct {
	name, model, w, l string
	d, g, s           string
}

func (m mos) InstanceName() string              { return m.name }
func (m mos) ModelName() string                 { return m.model }
func (m mos) Geometry() (string, string, error) { return m.w, m.l, nil }
func (m mos) Terminals() ([]string, error)      { return []string{m.d, m.g, m.s}, nil }

const (
	nfet = "sky130_fd_pr__nfet_01v8"
	pfet = "sky130_fd_pr__pfet_01v8"
)

func build(devs ...mos) *topology.Graph {
	elems := make([]topology.Element, len(devs))
	for i, d := range devs {
		elems[i] = d
	}
	g := topology.New()
	topology.NewBuilder().Add(g, elems)
	return g
}

func pairs(syms []constraint.Symmetry) [][2]string {
	var out [][2]string
	for _, s := range syms {
		out = append(out, s.Pair)
	}
	return out
}

func groupNames(groups []constraint.Group) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}

// scaledMirrorOTA has an NMOS input pair and a 1:2 PMOS mirror load, so the
// loads do not qualify as a second symmetric pair.
func scaledMirrorOTA() *topology.Graph {
	return build(
		mos{"M1", nfet, "10u", "0.15u", "node_x", "in_n", "tail"},
		mos{"M2", nfet, "10u", "0.15u", "out", "in_p", "tail"},
		mos{"M3", pfet, "20u", "0.5u", "node_x", "node_x", "vdd"},
		mos{"M4", pfet, "40u", "0.5u", "out", "node_x", "vdd"},
	)
}

func TestDetectOTA(t *testing.T) {
	var set constraint.Set
	Detect(scaledMirrorOTA(), &set)

	if got := pairs(set.Symmetry); !reflect.DeepEqual(got, [][2]string{{"M1", "M2"}}) {
		t.Fatalf("symmetry pairs = %v, want [[M1 M2]]", got)
	}
	if set.Symmetry[0].Direction != constraint.Vertical || set.Symmetry[0].Name != "sym_M1_M2" {
		t.Errorf("symmetry = %+v, want sym_M1_M2 with direction V", set.Symmetry[0])
	}
	if len(set.Groups) != 1 {
		t.Fatalf("groups = %v, want exactly one", groupNames(set.Groups))
	}
	want := constraint.Group{Name: "cm_M3_M4", Instances: []string{"M3", "M4"}, Role: constraint.RoleCurrentMirror}
	if !reflect.DeepEqual(set.Groups[0], want) {
		t.Errorf("group = %+v, want %+v", set.Groups[0], want)
	}
}

func TestMatchedLoadsAlsoPair(t *testing.T) {
	// Equal-sized loads on a shared supply satisfy the pairing rule too.
	g := build(
		mos{"M1", nfet, "10u", "0.15u", "out_n", "in_n", "tail"},
		mos{"M2", nfet, "10u", "0.15u", "out_p", "in_p", "tail"},
		mos{"M3", pfet, "20u", "0.5u", "out_n", "out_n", "vdd"},
		mos{"M4", pfet, "20u", "0.5u", "out_p", "out_n", "vdd"},
	)

	want := [][2]string{{"M1", "M2"}, {"M3", "M4"}}
	if got := pairs(DiffPairs(g)); !reflect.DeepEqual(got, want) {
		t.Errorf("DiffPairs() = %v, want %v", got, want)
	}
	if got := groupNames(CurrentMirrors(g)); !reflect.DeepEqual(got, []string{"cm_M3_M4"}) {
		t.Errorf("CurrentMirrors() = %v, want [cm_M3_M4]", got)
	}
}

func TestDiffPairs(t *testing.T) {
	tests := []struct {
		name string
		devs []mos
		want [][2]string
	}{
		{
			name: "different width",
			devs: []mos{
				{"M1", nfet, "10u", "0.15u", "out_n", "in_n", "tail"},
				{"M2", nfet, "5u", "0.15u", "out_p", "in_p", "tail"},
			},
		},
		{
			name: "different length",
			devs: []mos{
				{"M1", nfet, "10u", "0.15u", "out_n", "in_n", "tail"},
				{"M2", nfet, "10u", "0.18u", "out_p", "in_p", "tail"},
			},
		},
		{
			name: "equivalent but differently written width",
			devs: []mos{
				{"M1", nfet, "10u", "1u", "a", "in_n", "tail"},
				{"M2", nfet, "10.0u", "1u", "b", "in_p", "tail"},
			},
		},
		{
			name: "different model",
			devs: []mos{
				{"M1", nfet, "10u", "1u", "a", "in_n", "tail"},
				{"M2", pfet, "10u", "1u", "b", "in_p", "tail"},
			},
		},
		{
			name: "different sources",
			devs: []mos{
				{"M1", nfet, "10u", "1u", "a", "in_n", "tail1"},
				{"M2", nfet, "10u", "1u", "b", "in_p", "tail2"},
			},
		},
		{
			name: "parallel devices share drain",
			devs: []mos{
				{"M1", nfet, "10u", "1u", "out", "in", "tail"},
				{"M2", nfet, "10u", "1u", "out", "in", "tail"},
			},
		},
		{
			name: "missing geometry",
			devs: []mos{
				{"M1", nfet, "", "", "a", "in_n", "tail"},
				{"M2", nfet, "", "", "b", "in_p", "tail"},
			},
		},
		{
			name: "greedy first match",
			devs: []mos{
				{"M1", nfet, "10u", "1u", "a", "x", "tail"},
				{"M2", nfet, "10u", "1u", "b", "y", "tail"},
				{"M3", nfet, "10u", "1u", "c", "z", "tail"},
			},
			want: [][2]string{{"M1", "M2"}},
		},
		{
			name: "skips incompatible candidate",
			devs: []mos{
				{"M1", nfet, "10u", "1u", "a", "x", "tail"},
				{"M2", nfet, "10u", "1u", "a", "y", "tail"},
				{"M3", nfet, "10u", "1u", "c", "z", "tail"},
			},
			want: [][2]string{{"M1", "M3"}},
		},
		{
			name: "two independent pairs",
			devs: []mos{
				{"M1", nfet, "10u", "1u", "a", "x", "t1"},
				{"M2", nfet, "4u", "1u", "c", "x", "t2"},
				{"M3", nfet, "10u", "1u", "b", "y", "t1"},
				{"M4", nfet, "4u", "1u", "d", "y", "t2"},
			},
			want: [][2]string{{"M1", "M3"}, {"M2", "M4"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pairs(DiffPairs(build(tt.devs...)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DiffPairs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurrentMirrors(t *testing.T) {
	tests := []struct {
		name string
		devs []mos
		want []string
	}{
		{
			name: "shared gate without diode",
			devs: []mos{
				{"M1", pfet, "1u", "1u", "a", "bias", "vdd"},
				{"M2", pfet, "1u", "1u", "b", "bias", "vdd"},
			},
		},
		{
			name: "diode on second device",
			devs: []mos{
				{"M1", pfet, "1u", "1u", "out", "ref", "vdd"},
				{"M2", pfet, "1u", "1u", "ref", "ref", "vdd"},
			},
			want: []string{"cm_M1_M2"},
		},
		{
			name: "multi-output mirror",
			devs: []mos{
				{"M1", nfet, "1u", "1u", "ref", "ref", "gnd"},
				{"M2", nfet, "1u", "1u", "o1", "ref", "gnd"},
				{"M3", nfet, "2u", "1u", "o2", "ref", "gnd"},
			},
			want: []string{"cm_M1_M2", "cm_M1_M3"},
		},
		{
			name: "geometry is not checked",
			devs: []mos{
				{"M1", nfet, "1u", "1u", "ref", "ref", "gnd"},
				{"M2", pfet, "8u", "3u", "o1", "ref", "vdd"},
			},
			want: []string{"cm_M1_M2"},
		},
		{
			name: "different gates",
			devs: []mos{
				{"M1", nfet, "1u", "1u", "a", "a", "gnd"},
				{"M2", nfet, "1u", "1u", "b", "b", "gnd"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := groupNames(CurrentMirrors(build(tt.devs...)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CurrentMirrors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectAppends(t *testing.T) {
	g := scaledMirrorOTA()

	var set constraint.Set
	Detect(g, &set)
	Detect(g, &set)
	if set.Len() != 4 {
		t.Errorf("Len() after two runs = %d, want 4", set.Len())
	}

	set.Reset()
	Detect(g, &set)
	if set.Len() != 2 {
		t.Errorf("Len() after Reset = %d, want 2", set.Len())
	}
}

func TestDirectionOption(t *testing.T) {
	syms := DiffPairsWith(scaledMirrorOTA(), Options{Direction: constraint.Horizontal})
	if len(syms) != 1 || syms[0].Direction != constraint.Horizontal {
		t.Errorf("DiffPairsWith(H) = %+v, want one horizontal pair", syms)
	}
}

func TestDetectorsDoNotMutateGraph(t *testing.T) {
	g := scaledMirrorOTA()
	before := g.Edges()

	DiffPairs(g)
	CurrentMirrors(g)

	if !reflect.DeepEqual(g.Edges(), before) {
		t.Error("detectors changed the graph")
	}
}

func TestEmptyGraph(t *testing.T) {
	g := topology.New()
	if got := DiffPairs(g); got != nil {
		t.Errorf("DiffPairs(empty) = %v, want nil", got)
	}
	if got := CurrentMirrors(g); got != nil {
		t.Errorf("CurrentMirrors(empty) = %v, want nil", got)
	}
}
