// Package pipeline provides the extraction pipeline shared by the CLI and the
// HTTP endpoint.
//
// # Architecture
//
// A run has three stages:
//
//  1. Parse: read the SPICE deck into elements grouped by scope
//  2. Build: clear a topology graph and add the device-family elements
//  3. Detect: run the differential-pair and current-mirror matchers
//
// The exported constraint JSON, together with the build report and stats, is
// cached under a key derived from the netlist content and the options, so an
// unchanged netlist is not parsed again.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.ExtractFile(ctx, "ota.sp", pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(res.JSON)
//
// Run individual stages:
//
//	nl, err := netlist.ParseFile("ota.sp")
//	g, report := pipeline.BuildGraph(nl, opts)
//	set := pipeline.DetectConstraints(g, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/analogtopo/pkg/cache"
	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/errors"
	"github.com/matzehuels/analogtopo/pkg/topology"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultCacheTTL is how long an extraction result stays cached.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Format constants for rendered outputs.
const (
	FormatJSON = "json" // node-link topology graph, see pkg/graph
	FormatDOT  = "dot"  // Graphviz source of the topology graph
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// netlistNamespace scopes the name-based UUIDs that identify netlists.
var netlistNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/analogtopo/netlist"))

// NetlistID returns the stable identifier of a netlist's content. Identical
// bytes always map to the same UUID.
func NetlistID(src []byte) uuid.UUID {
	return uuid.NewSHA1(netlistNamespace, src)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one extraction run.
// This struct supports JSON serialization for API requests.
type Options struct {
	DevicePrefix   string               `json:"device_prefix,omitempty"`
	PolarityMarker string               `json:"polarity_marker,omitempty"`
	Direction      constraint.Direction `json:"direction,omitempty"`
	Refresh        bool                 `json:"refresh,omitempty"` // bypass the cache lookup

	// Runtime options (not serialized)
	CacheTTL time.Duration `json:"-"`
	Logger   *log.Logger   `json:"-"`
}

// SetDefaults fills every empty field. It is idempotent.
func (o *Options) SetDefaults() {
	if o.DevicePrefix == "" {
		o.DevicePrefix = topology.DefaultDevicePrefix
	}
	if o.PolarityMarker == "" {
		o.PolarityMarker = topology.DefaultPolarityMarker
	}
	if o.Direction == "" {
		o.Direction = constraint.Vertical
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks the options.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := errors.ValidateDevicePrefix(o.DevicePrefix); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s", errors.UserMessage(err))
	}
	if !o.Direction.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid direction %q (must be V or H)", o.Direction)
	}
	if o.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache TTL must not be negative")
	}
	return nil
}

// KeyOpts returns the options that influence the extraction result.
func (o Options) KeyOpts() cache.ExtractKeyOpts {
	return cache.ExtractKeyOpts{
		DevicePrefix:   o.DevicePrefix,
		PolarityMarker: o.PolarityMarker,
		Direction:      string(o.Direction),
	}
}

func (o Options) builder() *topology.Builder {
	return topology.NewBuilder(
		topology.WithDevicePrefix(o.DevicePrefix),
		topology.WithPolarityMarker(o.PolarityMarker),
	)
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of an extraction run.
type Result struct {
	// NetlistID identifies the netlist content; see [NetlistID].
	NetlistID uuid.UUID

	// Name is the display name of the netlist (usually its path).
	Name string

	// Title is the netlist title line, if any.
	Title string

	// Graph is the topology graph. It is nil when the result came from the
	// cache, since only the constraints are stored.
	Graph *topology.Graph

	// Report lists added, ignored and skipped elements.
	Report topology.Report

	// Constraints holds the detected symmetry and group constraints.
	Constraints *constraint.Set

	// JSON is the exported constraint array.
	JSON []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when the result was served from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements  int           `json:"elements"`
	Devices   int           `json:"devices"`
	Nets      int           `json:"nets"`
	Edges     int           `json:"edges"`
	Symmetry  int           `json:"symmetry"`
	Groups    int           `json:"groups"`
	ParseTime time.Duration `json:"-"`
	BuildTime time.Duration `json:"-"`
	MatchTime time.Duration `json:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}
