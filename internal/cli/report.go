package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	service "github.com/okian/secretsanta/internal/app"
)

// printReport lists every santa with the outcome of their letter. Recipients
// are never shown; they are only in the record file.
func printReport(w io.Writer, report *service.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Santa", "Email", "Status"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, d := range report.Deliveries {
		table.Append([]string{d.Santa.Name, d.Santa.Email, d.Status})
	}
	table.Render()

	_, _ = fmt.Fprintf(w, "\nmode: %s  run: %s", report.Mode, report.RunID)
	if report.Attempts > 0 {
		_, _ = fmt.Fprintf(w, "  draws: %d", report.Attempts)
	}
	_, _ = fmt.Fprintf(w, "\nrecord: %s\n", report.RecordPath)
	if n := report.Failed(); n > 0 {
		_, _ = fmt.Fprintf(w, "%d of %d letters failed to send; see the log for details\n", n, len(report.Deliveries))
	}
}
