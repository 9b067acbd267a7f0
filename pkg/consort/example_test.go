package consort_test

import (
	"fmt"

	"github.com/matzehuels/consort/pkg/cohort"
	"github.com/matzehuels/consort/pkg/consort"
)

func ExampleBuildDiagram() {
	d, err := consort.BuildDiagram(cohort.Sample(), consort.DefaultTemplate())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("plot: %g x %g\n", d.Width, d.Height)
	fmt.Printf("primitives: %d\n", len(d.Primitives))
	// Output:
	// plot: 137 x 113
	// primitives: 48
}

func ExampleBuildGrid() {
	grid, err := consort.BuildGrid(consort.DefaultSpec())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	first := grid.Column(1)
	fmt.Printf("column 1: near=%g center=%g far=%g\n", first.Near, first.Center, first.Far)
	// Output:
	// column 1: near=5 center=19 far=33
}

func ExampleResolve() {
	content, err := consort.Resolve(cohort.Sample(), consort.DefaultTemplate())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("assessed: %d\n", content.Total)
	fmt.Printf("arm A: %d\n", content.Cells[consort.CellKey{Layer: 2, Column: 2}])
	// Output:
	// assessed: 100
	// arm A: 50
}
