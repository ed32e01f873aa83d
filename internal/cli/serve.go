package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/analogtopo/internal/server"
	"github.com/matzehuels/analogtopo/pkg/cache"
	"github.com/matzehuels/analogtopo/pkg/metrics"
)

// serverKeyPrefix keeps server cache entries apart from CLI entries in the
// shared cache directory.
const serverKeyPrefix = "server:"

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	extractFlags
	addr    string
	noCache bool
	metrics bool
}

// serveCommand creates the serve command, which exposes extraction over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve constraint extraction over HTTP",
		Long: `Serve constraint extraction over HTTP until interrupted.

  POST /v1/extract   netlist text in the body, constraint JSON out
  GET  /healthz      liveness probe
  GET  /metrics      Prometheus metrics (unless --metrics=false)

Example:
  curl --data-binary @ota.sp 'localhost:8080/v1/extract?direction=H'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", true, "serve Prometheus metrics on /metrics (default from config)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	runner, err := c.newRunner(opts.noCache, cache.NewScopedKeyer(nil, serverKeyPrefix))
	if err != nil {
		return err
	}
	defer runner.Close()

	extract := c.pipelineOptions(opts.extractFlags)
	if err := extract.Validate(); err != nil {
		return err
	}

	cfg := server.Config{
		Addr:         c.cfg.Server.Addr,
		MaxBodyBytes: c.cfg.Server.MaxBodyBytes,
		Extract:      extract,
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}

	withMetrics := c.cfg.Server.Metrics
	if cmd.Flags().Changed("metrics") {
		withMetrics = opts.metrics
	}
	if withMetrics {
		reg := metrics.NewRegistry()
		reg.Install()
		cfg.Metrics = reg.Handler()
	}

	printInfo("Listening on %s", StyleHighlight.Render(cfg.Addr))
	return server.New(runner, cfg, c.Logger).ListenAndServe(cmd.Context())
}
