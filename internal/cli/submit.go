package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/observability"
	"github.com/flickergrid/flickergrid/pkg/run"
)

type submitOpts struct {
	server      string
	session     string
	cue         string
	repeats     int
	body        float64
	head        float64
	tail        float64
	shape       string
	background  string
	resolutionX int
	resolutionY int
}

// submitCommand creates the submit command.
func (c *CLI) submitCommand() *cobra.Command {
	opts := submitOpts{
		server:  defaultServerURL,
		cue:     design.CueRandom,
		repeats: 1,
		body:    5,
		head:    1,
		tail:    1,
	}

	cmd := &cobra.Command{
		Use:   "submit [design-file|-]",
		Short: "Submit a run to the display server",
		Long: `Submit sends a design and its trial timing to a running server. The server
validates every field; rejected runs list the offending fields.

A trial is a head, a body while the patches flicker, and a tail. The cue
picks which patch is highlighted per trial: a patch id, !Random, or !NoCue.`,
		Example: `  flickergrid submit --session pilot --cue p-3 --repeats 10
  flickergrid generate --seed 7 | flickergrid submit - --cue '!Random'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSubmit(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.server, "server", opts.server, "display server URL")
	cmd.Flags().StringVar(&opts.session, "session", "", "submit a saved session")
	cmd.Flags().StringVar(&opts.cue, "cue", opts.cue, "cue: a patch id, !Random or !NoCue")
	cmd.Flags().IntVar(&opts.repeats, "repeats", opts.repeats, "number of trials")
	cmd.Flags().Float64Var(&opts.body, "body", opts.body, "trial body length in seconds")
	cmd.Flags().Float64Var(&opts.head, "head", opts.head, "trial head length in seconds")
	cmd.Flags().Float64Var(&opts.tail, "tail", opts.tail, "trial tail length in seconds")
	cmd.Flags().StringVar(&opts.shape, "shape", "", "patch shape: rectangle or ellipse (default from config)")
	cmd.Flags().StringVar(&opts.background, "background", "", "image file shown behind the patches")
	cmd.Flags().IntVar(&opts.resolutionX, "resolution-x", 0, "display width in pixels (default from config)")
	cmd.Flags().IntVar(&opts.resolutionY, "resolution-y", 0, "display height in pixels (default from config)")

	return cmd
}

func (c *CLI) runSubmit(ctx context.Context, args []string, opts *submitOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	text, source, err := c.readDesign(ctx, args, opts.session)
	if err != nil {
		return err
	}
	bg, err := readBackground(opts.background)
	if err != nil {
		return err
	}

	req := run.Request{
		DesignText:             text,
		ResolutionX:            cfg.Display.ResolutionX,
		ResolutionY:            cfg.Display.ResolutionY,
		TrialBodyLength:        opts.body,
		TrialHeadLength:        opts.head,
		TrialTailLength:        opts.tail,
		TrialRepeats:           opts.repeats,
		Cue:                    opts.cue,
		BackgroundImageDataURL: bg,
		PatchShape:             cfg.Display.PatchShape,
	}
	if opts.resolutionX > 0 {
		req.ResolutionX = opts.resolutionX
	}
	if opts.resolutionY > 0 {
		req.ResolutionY = opts.resolutionY
	}
	if opts.shape != "" {
		req.PatchShape = opts.shape
	}

	client, err := run.NewClient(opts.server)
	if err != nil {
		return err
	}
	observability.SetHTTPHooks(observability.NewLogHooks(logger))
	defer observability.Reset()

	logger.Infof("Submitting %s to %s", source, opts.server)
	spinner := newSpinnerWithContext(ctx, "Submitting run...")
	spinner.Start()
	receipt, err := client.Submit(ctx, req)
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}

	var rejected *run.SubmitError
	if errors.As(err, &rejected) {
		printError("Run rejected (%d %s)", rejected.Status, http.StatusText(rejected.Status))
		for _, field := range rejected.Fields.Fields() {
			printKeyValue(field, rejected.Fields[field])
		}
		return err
	}
	if err != nil {
		return err
	}

	printSuccess("Run %s queued at position %d", StyleHighlight.Render(receipt.ID), receipt.Position)
	printDetail("%d trials of %gs, about %s", req.TrialRepeats, req.TrialLength(), formatSeconds(req.TotalLength()))
	printNextStep("Follow it", "flickergrid status --watch --server "+opts.server)
	return nil
}

// statusCommand creates the status command.
func (c *CLI) statusCommand() *cobra.Command {
	var (
		serverURL string
		watch     bool
		interval  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the display server's queue and current run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := run.NewClient(serverURL)
			if err != nil {
				return err
			}

			for {
				status, err := client.Status(ctx)
				if err != nil {
					return err
				}
				printStatus(status)
				if !watch {
					return nil
				}

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(interval):
				}
				printNewline()
			}
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", defaultServerURL, "display server URL")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "poll until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "poll interval with --watch")

	return cmd
}

func printStatus(s run.Status) {
	printKeyValue("task", s.CurrentTask)
	printKeyValue("queued", strconv.Itoa(s.TasksInBuffer))
	if s.CurrentTask != run.TaskIdle {
		printKeyValue("progress", fmt.Sprintf("%s / %s", formatSeconds(s.Passed), formatSeconds(s.Total)))
	}
	if s.EventBuffer != "" {
		printInfo("Finished run events:")
		for _, line := range strings.Split(s.EventBuffer, "\n") {
			printDetail("%s", line)
		}
	}
}

func formatSeconds(s float64) string {
	return (time.Duration(s * float64(time.Second))).Round(100 * time.Millisecond).String()
}
