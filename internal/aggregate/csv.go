package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// WriteCSV writes one row per group. The group-key column is named after the
// grouping field; the points column appears only for the locality driver.
// Failed groups carry an empty score and the error text.
func WriteCSV(w io.Writer, field string, rows []Row, withPoints bool) error {
	cw := csv.NewWriter(w)

	header := []string{field}
	if withPoints {
		header = append(header, "n_points")
	}
	header = append(header, "score", "n_parcels", "road_km_per_km2", "error")
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "aggregate: write CSV header")
	}

	for _, r := range rows {
		rec := []string{r.Group}
		if withPoints {
			rec = append(rec, strconv.Itoa(r.Points))
		}
		score := ""
		if r.Score != nil {
			score = fmt.Sprintf("%.4f", *r.Score)
		}
		rec = append(rec,
			score,
			strconv.Itoa(r.Parcels),
			fmt.Sprintf("%.6f", r.RoadKMPerKM2),
			r.Err,
		)
		if err := cw.Write(rec); err != nil {
			return eris.Wrap(err, "aggregate: write CSV row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "aggregate: flush CSV")
}

// TopN returns the n highest-scoring rows, ignoring failed groups.
func TopN(rows []Row, n int) []Row {
	var scored []Row
	for _, r := range rows {
		if r.Score != nil {
			scored = append(scored, r)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Score > *scored[j].Score
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// PrintSummary writes a fixed-width table of the top n groups by score.
func PrintSummary(w io.Writer, field string, rows []Row, n int) {
	top := TopN(rows, n)
	if len(top) == 0 {
		fmt.Fprintln(w, "No scored groups.")
		return
	}

	fmt.Fprintf(w, "\nTop %d by score:\n", len(top))
	fmt.Fprintf(w, "%-30s %7s %10s %16s\n", field, "score", "n_parcels", "road_km_per_km2")
	fmt.Fprintln(w, strings.Repeat("-", 66))
	for _, r := range top {
		name := r.Group
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Fprintf(w, "%-30s %7.2f %10d %16.4f\n", name, *r.Score, r.Parcels, r.RoadKMPerKM2)
	}
}
