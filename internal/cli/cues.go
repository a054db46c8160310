package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flickergrid/flickergrid/pkg/render"
)

// cuesCommand creates the cues command.
func (c *CLI) cuesCommand() *cobra.Command {
	var (
		sessionName string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "cues [design-file|-]",
		Short: "List the cue options of a design",
		Long: `Cues prints the options a run's cue can take: !Random, !NoCue, then every
patch id in design order. Duplicate ids are listed as often as they occur and
reported as warnings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := c.readDesign(cmd.Context(), args, sessionName)
			if err != nil {
				return err
			}
			report := render.Inspect(text)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report.Cues)
			}
			for _, cue := range report.Cues {
				fmt.Println(cue)
			}
			for _, d := range report.Duplicates {
				printWarning("patch id %s occurs %d times", d.PID, d.Count)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionName, "session", "", "read a saved session")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the cue list as JSON")

	return cmd
}
