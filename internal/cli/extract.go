package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/analogtopo/pkg/errors"
	"github.com/matzehuels/analogtopo/pkg/pipeline"
)

// stdoutPath selects standard output for -o.
const stdoutPath = "-"

// extractOpts holds the command-line flags for the extract command.
type extractOpts struct {
	extractFlags
	output  string // output path, "-" for stdout, empty for <input><suffix>
	noCache bool   // skip the result cache entirely
	refresh bool   // recompute and overwrite the cached entry
}

// extractCommand creates the extract command, which runs the full
// parse/build/detect pipeline and writes the constraint JSON.
func (c *CLI) extractCommand() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract <netlist>",
		Short: "Extract layout constraints from a SPICE netlist",
		Long: `Extract layout constraints from a SPICE netlist.

Transistors whose instance name starts with the device prefix are placed in a
device/net graph. Differential pairs become SymmetricBlocks constraints and
current mirrors become GroupBlocks constraints.

Examples:
  analogtopo extract ota.sp                    # writes ota_constraints.json
  analogtopo extract ota.sp -o -               # prints to stdout
  analogtopo extract ota.sp -d H --refresh     # horizontal axis, bypass cache`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExtract(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (- for stdout, default <netlist>"+c.cfg.Output.Suffix+")")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")

	return cmd
}

func (c *CLI) runExtract(cmd *cobra.Command, input string, opts extractOpts) error {
	ctx := cmd.Context()

	output := opts.output
	if output == "" {
		output = defaultOutput(input, c.cfg.Output.Suffix)
	}
	if output != stdoutPath {
		if err := errors.ValidateOutputPath(output); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions(opts.extractFlags)
	popts.Refresh = opts.refresh

	spinner := newSpinnerWithContext(ctx, "Extracting constraints from "+input+"...")
	spinner.Start()
	res, err := runner.ExtractFile(ctx, input, popts)
	if err != nil {
		spinner.StopWithError("Extraction failed")
		return err
	}
	spinner.Stop()

	if output == stdoutPath {
		_, err := cmd.OutOrStdout().Write(res.JSON)
		return err
	}

	if err := os.WriteFile(output, res.JSON, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", output)
	}

	reportExtraction(res)
	printFile(output)
	printNextStep("Review", appName+" inspect "+output)
	return nil
}

// reportExtraction prints the summary lines shared by extract and inspect.
func reportExtraction(res *pipeline.Result) {
	printSuccess("Found %s", constraintSummary(res.Stats.Symmetry, res.Stats.Groups))
	printStats(res.Stats.Devices, res.Stats.Nets, res.Stats.Edges, res.CacheHit)
	for _, s := range res.Report.Skipped {
		printWarning("skipped %s: %s", s.Name, s.Reason)
	}
}

func constraintSummary(symmetry, groups int) string {
	return fmt.Sprintf("%s, %s", plural(symmetry, "symmetric pair"), plural(groups, "current mirror"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
