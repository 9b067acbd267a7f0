package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/consort/pkg/cohort"
)

// newSampleCmd creates the sample command, which writes the deterministic
// reference cohort as CSV. The output renders the reference diagram and is
// handy as a starting point for custom datasets.
func newSampleCmd() *cobra.Command {
	var output string
	var rows int

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write the reference sample cohort as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := cohort.Sample()
			if rows > 0 && rows < d.Len() {
				var err error
				if d, err = truncate(d, rows); err != nil {
					return err
				}
			}

			w := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if err := cohort.WriteCSV(d, w); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Wrote %d subjects", d.Len())
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "emit only the first n subjects")

	return cmd
}

// truncate returns a dataset holding the first n subjects of d.
func truncate(d *cohort.Dataset, n int) (*cohort.Dataset, error) {
	out := cohort.New()
	for _, name := range d.Fields() {
		values, _ := d.Field(name)
		if err := out.AddField(name, values[:n]); err != nil {
			return nil, fmt.Errorf("truncate %q: %w", name, err)
		}
	}
	return out, nil
}
