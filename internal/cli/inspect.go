package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/errors"
	"github.com/matzehuels/analogtopo/pkg/graph"
	cio "github.com/matzehuels/analogtopo/pkg/io"
	"github.com/matzehuels/analogtopo/pkg/pipeline"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	extractFlags
	noCache bool
}

// inspectCommand creates the inspect command, which prints the constraints of
// a netlist or of an exported constraint file as a table.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect <netlist|file.json>",
		Short: "Show the constraints of a netlist or constraint file",
		Long: `Show the constraints of a netlist or constraint file as a table.

A .json argument is either a previously exported constraint array or a
node-link graph written by "graph -f json", whose constraints are detected
again. Anything else is treated as a netlist and extracted first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, input string, opts inspectOpts) error {
	if strings.EqualFold(filepath.Ext(input), ".json") {
		return c.inspectJSON(input, opts)
	}

	runner, err := c.newRunner(opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.ExtractFile(cmd.Context(), input, c.pipelineOptions(opts.extractFlags))
	if err != nil {
		return err
	}

	if res.Title != "" {
		printKeyValue("Title", res.Title)
	}
	printKeyValue("Netlist ID", res.NetlistID.String())
	reportExtraction(res)
	printConstraints(res.Constraints)
	return nil
}

// inspectJSON handles both JSON inputs. A graph is an object; a constraint
// file is an array.
func (c *CLI) inspectJSON(path string, opts inspectOpts) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
		}
		return errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}

	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		set, err := cio.ReadJSON(bytes.NewReader(data))
		if err != nil {
			return err
		}
		printSuccess("Loaded %s", constraintSummary(len(set.Symmetry), len(set.Groups)))
		printConstraints(set)
		return nil
	}

	popts := c.pipelineOptions(opts.extractFlags)
	if err := popts.Validate(); err != nil {
		return err
	}
	g, err := graph.ReadGraph(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "graph %s", path)
	}
	set := pipeline.DetectConstraints(g, popts)
	printSuccess("Found %s", constraintSummary(len(set.Symmetry), len(set.Groups)))
	printStats(g.DeviceCount(), g.NetCount(), g.EdgeCount(), false)
	printConstraints(set)
	return nil
}

// printConstraints renders set as a table, one row per constraint.
func printConstraints(set *constraint.Set) {
	if set.Len() == 0 {
		printInfo("No constraints")
		return
	}
	fmt.Fprintln(uiOut, renderTable([]string{"Constraint", "Name", "Instances", "Axis/Role"}, constraintRows(set)))
}

func constraintRows(set *constraint.Set) [][]string {
	rows := make([][]string, 0, set.Len())
	for _, s := range set.Symmetry {
		rows = append(rows, []string{
			cio.KindSymmetricBlocks,
			s.Name,
			strings.Join(s.Pair[:], ", "),
			string(s.Direction),
		})
	}
	for _, g := range set.Groups {
		role := g.Role
		if role == "" {
			role = "-"
		}
		rows = append(rows, []string{
			cio.KindGroupBlocks,
			g.Name,
			strings.Join(g.Instances, ", "),
			role,
		})
	}
	return rows
}
