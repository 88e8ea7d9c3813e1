package report

import (
	"encoding/csv"
	"fmt"
	"os"
)

var csvHeader = []string{
	"backend", "status", "energy", "wall_seconds", "worker_seconds", "detail",
}

// WriteCSV exports the comparison as one CSV row per backend, request
// order, for spreadsheet or plotting pipelines downstream.
func WriteCSV(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, res := range r.Results {
		energy := ""
		if res.Energy != nil {
			energy = fmt.Sprintf("%.8f", *res.Energy)
		}
		workerSec := ""
		if res.WorkerSeconds != nil {
			workerSec = fmt.Sprintf("%.4f", *res.WorkerSeconds)
		}
		record := []string{
			res.Name,
			string(res.Status),
			energy,
			fmt.Sprintf("%.4f", res.Elapsed.Seconds()),
			workerSec,
			res.Detail,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row for %s: %w", res.Name, err)
		}
	}

	w.Flush()
	return w.Error()
}
