package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/flickergrid/flickergrid/pkg/analysis"
	"github.com/flickergrid/flickergrid/pkg/design"
)

// similarThreshold marks pairs whose waveforms are hard to tell apart.
const similarThreshold = 0.8

type analyzeOpts struct {
	session  string
	body     float64
	recorded string
	top      int
	asJSON   bool
}

type analyzeReport struct {
	Summary analysis.Summary `json:"summary"`
	Pairs   []analysis.Pair  `json:"pairs"`
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{body: 5, top: 5}

	cmd := &cobra.Command{
		Use:   "analyze [design-file|-]",
		Short: "Correlate patch waveforms to find similar pairs",
		Long: `Analyze samples every patch's luminance over one trial body at 10 ms and
prints the pairs whose waveforms correlate most strongly. Patches whose
random frequencies and phases came out too close are hard to tell apart.

With --recorded, series from a CSV file (index column, one column per patch
id) replace the computed waveform of matching patches.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, source, err := c.readDesign(cmd.Context(), args, opts.session)
			if err != nil {
				return err
			}
			patches, err := design.ParseSpectral(text)
			if err != nil {
				return err
			}

			var wopts []analysis.Option
			if opts.recorded != "" {
				f, err := os.Open(opts.recorded)
				if err != nil {
					return err
				}
				series, err := analysis.ReadRecorded(f)
				f.Close()
				if err != nil {
					return err
				}
				wopts = append(wopts, analysis.WithRecorded(series))
			}

			ws := analysis.Waveforms(patches, opts.body, wopts...)
			m := analysis.Correlations(ws)
			summary, err := analysis.Summarize(ws, m)
			if err != nil {
				return err
			}
			report := analyzeReport{Summary: summary, Pairs: analysis.MostSimilar(ws, m, opts.top)}

			if opts.asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printAnalysis(source, len(patches), opts.body, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.session, "session", "", "analyze a saved session")
	cmd.Flags().Float64Var(&opts.body, "body", opts.body, "trial body length in seconds")
	cmd.Flags().StringVar(&opts.recorded, "recorded", "", "CSV of recorded series to use instead of computed waveforms")
	cmd.Flags().IntVar(&opts.top, "top", opts.top, "number of most similar pairs to list (0 = all)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON")

	return cmd
}

func printAnalysis(source string, patches int, body float64, r analyzeReport) {
	fmt.Println(StyleTitle.Render("Waveform similarity: " + source))
	printKeyValue("patches", strconv.Itoa(patches))
	printKeyValue("samples", strconv.Itoa(analysis.SampleCount(body)))
	if r.Summary.Pairs == 0 {
		printInfo("Fewer than two patches, nothing to compare")
		return
	}
	printKeyValue("pairs", strconv.Itoa(r.Summary.Pairs))
	printKeyValue("mean |r|", formatR(r.Summary.Mean))
	printKeyValue("median |r|", formatR(r.Summary.Median))
	printKeyValue("p90 |r|", formatR(r.Summary.P90))
	printKeyValue("max |r|", formatR(r.Summary.Max))
	printNewline()

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(r.Pairs))
	for i, p := range r.Pairs {
		rows[i] = []string{p.A, p.B, formatR(p.R)}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Patch", "Patch", "|r|").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(r.Pairs) && r.Pairs[row].R >= similarThreshold {
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	fmt.Println(t.Render())

	if r.Summary.Max >= similarThreshold {
		printWarning("some pairs correlate above %.2f; consider regenerating", similarThreshold)
	}
}

func formatR(r float64) string {
	return strconv.FormatFloat(r, 'f', 3, 64)
}
