package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flickergrid/flickergrid/pkg/design"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags   displayFlags
		output  string
		save    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Lay out a patch grid and print its design text",
		Long: `Generate lays out the configured grid of patches inside the stimulus rectangle,
assigning each patch a random frequency (omega) and phase (phi), and prints the
resulting design text. Use --seed for a reproducible layout.`,
		Example: `  flickergrid generate --columns 5 --rows 2 --seed 7
  flickergrid generate --set resolutionX=2560,resolutionY=1440 -o layout.txt
  flickergrid generate --save pilot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := flags.apply(logger, cfg)
			prog := newProgress(logger)
			text, cached, err := runner.GenerateWithCacheInfo(ctx, opts)
			if err != nil {
				return err
			}
			patches := len(design.Parse(text))
			prog.done(fmt.Sprintf("Generated %d patches", patches))

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()
			if _, err := fmt.Fprintln(out, text); err != nil {
				return err
			}

			if output != "" {
				printSuccess("Generated %d patches", patches)
				printFile(output)
				printStats(patches, 0, cached)
			}

			if save != "" || cmd.Flags().Changed("save") {
				store, err := c.openSessions(ctx)
				if err != nil {
					return err
				}
				defer store.Close()
				name, err := store.Save(ctx, strings.TrimSpace(save), text)
				if err != nil {
					return err
				}
				printSuccess("Saved session %s", StyleHighlight.Render(name))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write design text to a file instead of stdout")
	cmd.Flags().StringVar(&save, "save", "", "also save the design as a session (empty name = auto-generated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}
