package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/consort/pkg/cohort"
	"github.com/matzehuels/consort/pkg/consort"
)

// newSummarizeCmd creates the summarize command, which prints per-layer
// participant counts without rendering anything.
func newSummarizeCmd() *cobra.Command {
	var templatePath string

	cmd := &cobra.Command{
		Use:   "summarize [dataset.csv]",
		Short: "Print per-layer participant counts for a CSV dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd.Context(), args[0], templatePath)
		},
	}

	cmd.Flags().StringVar(&templatePath, "template", "", "diagram template TOML file (default: built-in two-arm template)")

	return cmd
}

// runSummarize resolves the dataset against the template and prints the
// counts layer by layer, in the same order the diagram lays them out.
func runSummarize(ctx context.Context, input, templatePath string) error {
	logger := loggerFromContext(ctx)
	logger.Debugf("Summarizing %s", input)

	d, err := cohort.ReadCSVFile(input)
	if err != nil {
		return err
	}

	tpl := consort.DefaultTemplate()
	if templatePath != "" {
		tpl, err = consort.LoadTemplate(templatePath)
		if err != nil {
			return err
		}
	}

	content, err := consort.Resolve(d, tpl)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render("Participant flow"))
	fmt.Println()

	for layer := 1; layer <= tpl.Grid.LayerCount; layer++ {
		switch layer {
		case tpl.Root.Layer:
			printCount(tpl.Root.Label, content.Total)
		case tpl.Exclusion.Layer:
			printExclusions(tpl, content)
		default:
			printLayer(tpl, content, layer)
		}
	}

	fmt.Println()
	printInfo("%d subjects across %d layers", d.Len(), tpl.Grid.LayerCount)
	return nil
}

// printLayer prints one row per templated cell in the given layer, ordered
// by column.
func printLayer(tpl consort.Template, content *consort.Content, layer int) {
	for col := 1; col <= tpl.Grid.ColumnCount; col++ {
		for _, cell := range tpl.Cells {
			if cell.Layer != layer || cell.Column != col {
				continue
			}
			printCount(cell.Label, content.Cells[consort.CellKey{Layer: layer, Column: col}])
		}
	}
}

// printExclusions prints one row per exclusion reason, summed across columns.
func printExclusions(tpl consort.Template, content *consort.Content) {
	for _, reason := range tpl.Exclusion.Reasons {
		total := 0
		for pair, n := range content.Exclusions {
			if pair.Reason == reason.Code {
				total += n
			}
		}
		printCount(StyleDim.Render(reason.Label), total)
	}
}

// printCount prints a label with a right-aligned styled count.
func printCount(label string, n int) {
	printKeyValue(label, StyleNumber.Render(fmt.Sprintf("%d", n)))
}
