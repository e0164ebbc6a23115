package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"feeScope/internal/model"
)

// WriteGrowthTable renders the growth set as a table with six-decimal-place
// fee columns, ordered by position id.
func WriteGrowthTable(w io.Writer, growth map[int64]model.GrowthRecord) error {
	ids := make([]int64, 0, len(growth))
	for id := range growth {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "Position ID\tUncollected Fees 0 Growth\tUncollected Fees 1 Growth\tCollected Fees 0 Growth\tCollected Fees 1 Growth\tUncollected Fees Token1 Equivalent Growth\tCollected Fees Token1 Equivalent Growth\tTotal Fees Token1 Equivalent Growth"); err != nil {
		return err
	}

	for _, id := range ids {
		g := growth[id]
		_, err := fmt.Fprintf(tw, "%d\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\n",
			id,
			g.Uncollected0,
			g.Uncollected1,
			g.Collected0,
			g.Collected1,
			g.UncollectedToken1Equivalent,
			g.CollectedToken1Equivalent,
			g.TotalToken1Equivalent,
		)
		if err != nil {
			return err
		}
	}

	return tw.Flush()
}
