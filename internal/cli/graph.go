package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/errors"
	"github.com/matzehuels/analogtopo/pkg/netlist"
	"github.com/matzehuels/analogtopo/pkg/pipeline"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	extractFlags
	output    string  // output file (single format) or base path (multiple)
	formats   string  // comma-separated output formats
	detailed  bool    // model and geometry in device labels
	highlight bool    // color devices that take part in a constraint
	scale     float64 // PNG scale factor
}

// graphCommand creates the graph command, which renders the device/net graph
// of a netlist for inspection.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{highlight: true, scale: 2}

	cmd := &cobra.Command{
		Use:   "graph <netlist>",
		Short: "Render the device/net graph of a netlist",
		Long: `Render the device/net graph of a netlist with Graphviz.

Devices are boxes and nets are ellipses; every edge is labelled with the
terminal (D, G or S) it connects. Devices in a differential pair or current
mirror are highlighted unless --highlight=false is given. The json format is
the node-link graph, which inspect accepts in place of a netlist.

Examples:
  analogtopo graph ota.sp                      # writes ota_graph.svg
  analogtopo graph ota.sp -f dot,png -o out    # writes out_graph.dot, out_graph.png
  analogtopo graph ota.sp --detailed -o ota.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show model and geometry in device labels")
	cmd.Flags().BoolVar(&opts.highlight, "highlight", opts.highlight, "highlight devices that take part in a constraint")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, input string, opts graphOpts) error {
	ctx := cmd.Context()
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	popts := c.pipelineOptions(opts.extractFlags)
	if err := popts.Validate(); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	nl, err := netlist.ParseFile(input)
	if err != nil {
		return err
	}
	g, report := pipeline.BuildGraph(nl, popts)
	for _, s := range report.Skipped {
		printWarning("skipped %s: %s", s.Name, s.Reason)
	}

	var highlight *constraint.Set
	if opts.highlight {
		highlight = pipeline.DetectConstraints(g, popts)
	}

	artifacts, err := pipeline.Render(ctx, g, highlight, pipeline.RenderOptions{
		Formats:  formats,
		Detailed: opts.detailed,
		Scale:    opts.scale,
	})
	if err != nil {
		return err
	}

	paths := graphOutputs(opts.output, input, formats)
	for _, format := range formats {
		path := paths[format]
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
		}
	}

	prog.done("Rendered " + plural(len(formats), "artifact"))
	printStats(g.DeviceCount(), g.NetCount(), g.EdgeCount(), false)
	for _, format := range formats {
		printFile(paths[format])
	}
	return nil
}

// graphOutputs maps each format to its output path. A single format with an
// explicit -o writes exactly there; otherwise files are named
// <base>_graph.<format>, where base is -o without a known format extension or
// the input path without its extension.
func graphOutputs(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else if ext := strings.TrimPrefix(filepath.Ext(base), "."); pipeline.ValidFormats[ext] {
		base = strings.TrimSuffix(base, "."+ext)
	}
	for _, format := range formats {
		paths[format] = base + "_graph." + format
	}
	return paths
}
