package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// WriteTable renders the human-readable comparison, one line per backend
// in request order.
func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== MLIP Benchmark ===\n\n")
	fmt.Fprintf(tw, "Structure: %s\n", r.Input)
	fmt.Fprintf(tw, "Run: %s (%s)\n", r.Meta.RunID, r.Meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(tw, "Succeeded: %d/%d\n\n", r.SuccessCount(), len(r.Results))

	header := []string{"Backend", "Status", "Energy", "Wall", "Worker", "Detail"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, res := range r.Results {
		energy := "N/A"
		if res.Energy != nil {
			energy = fmt.Sprintf("%.6f", *res.Energy)
		}
		wall := "N/A"
		if res.Elapsed > 0 {
			wall = res.Elapsed.Truncate(time.Millisecond).String()
		}
		workerTime := "N/A"
		if res.WorkerSeconds != nil {
			workerTime = fmt.Sprintf("%.3fs", *res.WorkerSeconds)
		}
		row := []string{
			res.Name,
			string(res.Status),
			energy,
			wall,
			workerTime,
			oneLine(res.Detail, 80),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
	tw.Flush()
}

// oneLine flattens a detail message so it cannot break table rows.
func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
