package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/flickergrid/flickergrid/internal/server"
	"github.com/flickergrid/flickergrid/pkg/observability"
	"github.com/flickergrid/flickergrid/pkg/pipeline"
	"github.com/flickergrid/flickergrid/pkg/run"
)

type serveOpts struct {
	addr     string
	simulate bool
	speed    float64
	noGzip   bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and run queue",
		Long: `Serve answers the browser front end: layout generation, previews, the
session store, and run submission. Accepted runs wait in an in-memory queue
for the stimulus display, which polls /checkoutDisplayStatus.

With --simulate the queue is drained on a timer so the front end can be
exercised without a display attached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, 127.0.0.1:23333)")
	cmd.Flags().BoolVar(&opts.simulate, "simulate", false, "drain the run queue on a timer instead of a real display")
	cmd.Flags().Float64Var(&opts.speed, "speed", 0, "simulated display speed-up (default from config)")
	cmd.Flags().BoolVar(&opts.noGzip, "no-gzip", false, "disable response compression")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cmd *cobra.Command, opts *serveOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if cmd.Flags().Changed("simulate") {
		cfg.Server.SimulateDisplay = opts.simulate
	}
	if opts.speed > 0 {
		cfg.Server.DisplaySpeed = opts.speed
	}
	if opts.noGzip {
		cfg.Server.Gzip = false
	}

	hooks := observability.NewLogHooks(logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	store, err := cfg.OpenServerCache(ctx)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, nil, logger)
	defer runner.Close()

	sessions, err := cfg.OpenSessionStore(ctx)
	if err != nil {
		return err
	}
	defer sessions.Close()

	queue := run.NewQueue(run.WithLogger(logger))
	srv := server.New(runner, sessions, queue,
		server.WithLogger(logger),
		server.WithBaseOptions(cfg.PipelineOptions()),
		server.WithGzip(cfg.Server.Gzip),
	)

	printInfo("Serving on %s", StyleLink.Render("http://"+cfg.Server.Addr))
	printDetail("sessions: %s, cache: %T", cfg.Session.Backend, store)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	})
	if cfg.Server.SimulateDisplay {
		printDetail("simulating the display at %gx", cfg.Server.DisplaySpeed)
		g.Go(func() error {
			return queue.Run(ctx, run.Timed{Speed: cfg.Server.DisplaySpeed})
		})
	}

	err = g.Wait()
	if err == nil || errors.Is(err, context.Canceled) {
		printSuccess("Server stopped")
		return nil
	}
	return err
}
