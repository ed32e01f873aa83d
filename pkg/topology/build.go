package topology

import (
	"fmt"
	"strings"
)

const (
	// DefaultDevicePrefix selects transistor instances by the first letter of
	// their name (compared case-insensitively).
	DefaultDevicePrefix = "M"

	// DefaultPolarityMarker is the model-name substring that classifies a
	// device as NFET.
	DefaultPolarityMarker = "nfet"
)

// Element is one instance line supplied by a netlist parser.
//
// Geometry returns the width and length tokens as written in the netlist, or
// empty strings when they are not specified. Terminals returns the connected
// net names in order, starting with drain, gate and source.
type Element interface {
	InstanceName() string
	ModelName() string
	Geometry() (width, length string, err error)
	Terminals() ([]string, error)
}

// Skip records a device-family element that was left out of the graph.
type Skip struct {
	Name   string
	Reason string
}

// Report summarizes one or more calls to [Builder.Add].
type Report struct {
	Added   int    // devices inserted into the graph
	Ignored int    // elements outside the device family (sources, passives, ...)
	Skipped []Skip // device-family elements that could not be resolved
}

// Merge accumulates another report into r.
func (r *Report) Merge(o Report) {
	r.Added += o.Added
	r.Ignored += o.Ignored
	r.Skipped = append(r.Skipped, o.Skipped...)
}

// Builder converts netlist elements into graph nodes and edges.
type Builder struct {
	// DevicePrefix is the instance-name marker of transistor elements.
	DevicePrefix string
	// PolarityMarker is the model-name substring that yields NFET.
	PolarityMarker string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithDevicePrefix overrides the device-family marker.
func WithDevicePrefix(prefix string) BuilderOption {
	return func(b *Builder) { b.DevicePrefix = prefix }
}

// WithPolarityMarker overrides the NFET model-name marker.
func WithPolarityMarker(marker string) BuilderOption {
	return func(b *Builder) { b.PolarityMarker = marker }
}

// NewBuilder creates a Builder with the default markers, then applies opts.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		DevicePrefix:   DefaultDevicePrefix,
		PolarityMarker: DefaultPolarityMarker,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add inserts every device-family element of one scope into g.
//
// Add never fails. Elements outside the device family are counted and
// otherwise ignored. A device whose terminals cannot be resolved, or whose
// name or nets collide with existing nodes of the other kind, is skipped as a
// whole: neither its node nor any of its edges are added. Missing or
// unreadable geometry degrades to empty strings.
//
// Calling Add for several scopes accumulates into the same graph; nothing
// added by an earlier call is removed.
func (b *Builder) Add(g *Graph, elems []Element) Report {
	var r Report
	for _, e := range elems {
		name := e.InstanceName()
		if !b.isDevice(name) {
			r.Ignored++
			continue
		}
		if err := b.addDevice(g, e); err != nil {
			r.Skipped = append(r.Skipped, Skip{Name: name, Reason: err.Error()})
			continue
		}
		r.Added++
	}
	return r
}

func (b *Builder) isDevice(name string) bool {
	prefix := b.DevicePrefix
	if prefix == "" {
		prefix = DefaultDevicePrefix
	}
	return len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix)
}

func (b *Builder) polarity(model string) Polarity {
	marker := b.PolarityMarker
	if marker == "" {
		marker = DefaultPolarityMarker
	}
	if strings.Contains(model, marker) {
		return NFET
	}
	return PFET
}

// addDevice validates everything up front so that a rejected device leaves
// no trace in the graph.
func (b *Builder) addDevice(g *Graph, e Element) error {
	name := e.InstanceName()
	if name == "" {
		return ErrInvalidNodeID
	}
	if n, exists := g.Node(name); exists {
		if n.IsNet() {
			return fmt.Errorf("name %q: %w", name, ErrKindConflict)
		}
		return fmt.Errorf("name %q: %w", name, ErrDuplicateNodeID)
	}

	terminals, err := e.Terminals()
	if err != nil {
		return fmt.Errorf("terminals: %w", err)
	}
	if len(terminals) < len(Pins) {
		return fmt.Errorf("terminals: need %d (drain, gate, source), got %d", len(Pins), len(terminals))
	}
	nets := terminals[:len(Pins)]
	for i, net := range nets {
		if net == "" {
			return fmt.Errorf("%s terminal: %w", Pins[i], ErrInvalidNodeID)
		}
		if net == name {
			return fmt.Errorf("%s terminal %q: %w", Pins[i], net, ErrKindConflict)
		}
		if n, exists := g.Node(net); exists && n.IsDevice() {
			return fmt.Errorf("%s terminal %q: %w", Pins[i], net, ErrKindConflict)
		}
	}

	width, length, err := e.Geometry()
	if err != nil {
		width, length = "", ""
	}
	model := e.ModelName()

	if err := g.AddDevice(name, Device{
		Model:    model,
		Width:    width,
		Length:   length,
		Polarity: b.polarity(model),
	}); err != nil {
		return err
	}
	for i, pin := range Pins {
		// Both calls are pre-validated above and cannot fail.
		_ = g.AddNet(nets[i])
		_ = g.AddEdge(name, nets[i], pin)
	}
	return nil
}
