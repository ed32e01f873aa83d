package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/render"
	"github.com/matzehuels/analogtopo/pkg/topology"
)

// Fill colours for highlighted devices.
const (
	colorSymmetry = "lightskyblue"
	colorMirror   = "palegreen"
	colorBoth     = "khaki"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds model and W/L to device labels.
	// When false, only the instance name is shown.
	Detailed bool

	// Highlight colours devices that appear in detected constraints.
	// Nil disables highlighting.
	Highlight *constraint.Set
}

// ToDOT converts a topology graph to Graphviz DOT format. Devices are drawn
// as boxes, nets as ellipses, and every edge carries its pin label, so a
// diode-connected device shows two parallel edges (D and G) to one net.
//
// The result is deterministic: nodes and edges follow graph insertion order.
func ToDOT(g *topology.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	roles := roleIndex(opts.Highlight)
	for _, n := range g.Devices() {
		attrs := []string{
			fmt.Sprintf("label=%q", deviceLabel(n, opts.Detailed)),
			"shape=box",
			"style=\"rounded,filled\"",
			"fillcolor=" + roles.fill(n.ID),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}
	for _, n := range g.Nets() {
		fmt.Fprintf(&buf, "  %q [shape=ellipse];\n", n.ID)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n", e.Device, e.Net, e.Pin.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func deviceLabel(n *topology.Node, detailed bool) string {
	if !detailed || n.Device == nil {
		return n.ID
	}
	d := n.Device
	parts := []string{n.ID, d.Model}
	if d.Width != "" || d.Length != "" {
		parts = append(parts, fmt.Sprintf("W=%s L=%s", orDash(d.Width), orDash(d.Length)))
	}
	return strings.Join(parts, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type highlightRoles struct {
	symmetric map[string]bool
	mirrored  map[string]bool
}

func roleIndex(set *constraint.Set) highlightRoles {
	r := highlightRoles{symmetric: map[string]bool{}, mirrored: map[string]bool{}}
	if set == nil {
		return r
	}
	for _, s := range set.Symmetry {
		r.symmetric[s.Pair[0]] = true
		r.symmetric[s.Pair[1]] = true
	}
	for _, g := range set.Groups {
		for _, inst := range g.Instances {
			r.mirrored[inst] = true
		}
	}
	return r
}

func (r highlightRoles) fill(id string) string {
	switch {
	case r.symmetric[id] && r.mirrored[id]:
		return colorBoth
	case r.symmetric[id]:
		return colorSymmetry
	case r.mirrored[id]:
		return colorMirror
	}
	return "white"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
