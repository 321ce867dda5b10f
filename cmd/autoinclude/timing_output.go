package main

import (
	"fmt"
	"io"

	"autoinclude/internal/driver"
	"autoinclude/internal/observ"
)

// printTimings writes the phase table of a single file, or the sum over
// every file of the run.
func printTimings(out io.Writer, results []driver.FileResult) {
	reports := make([]observ.Report, 0, len(results))
	for _, fr := range results {
		if fr.Result != nil {
			reports = append(reports, fr.Result.Timing)
		}
	}
	if len(reports) == 0 {
		return
	}
	report := reports[0]
	if len(reports) > 1 {
		report = observ.Sum(reports...)
		fmt.Fprintf(out, "%d files\n", len(reports))
	}
	fmt.Fprint(out, report.Summary())
}
