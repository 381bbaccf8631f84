// pkg/output/table.go - renders discovery, series and sync results as tables.

package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/sdporres/wdssupermenu/pkg/classify"
	"github.com/sdporres/wdssupermenu/pkg/discovery"
	"github.com/sdporres/wdssupermenu/pkg/replicate"
	"github.com/sdporres/wdssupermenu/pkg/series"
)

// PrintEntries formats discovered game folders as an ASCII table.
func PrintEntries(w io.Writer, entries []discovery.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No games found.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("Game", "Version", "Series", "Roles", "Saves", "Manuals")
	for _, e := range entries {
		table.Append(e.FolderName, dash(e.Version), dash(e.Series), formatRoles(e), yesNo(e.SavesPath), yesNo(e.ManualsPath))
	}
	table.Render()
}

// PrintExecutables lists the executable of every role for one entry.
func PrintExecutables(w io.Writer, e discovery.Entry) {
	table := tablewriter.NewWriter(w)
	table.Header("Role", "Executable")
	for _, r := range classify.Roles() {
		table.Append(r.String(), dash(e.Executables[r]))
	}
	table.Render()
}

// PrintSeries lists every series with its title count.
func PrintSeries(w io.Writer, t series.Table, source series.Source) {
	fmt.Fprintf(w, "Series (%s)\n", source)
	table := tablewriter.NewWriter(w)
	table.Header("Series", "Titles")
	for _, name := range t.Names() {
		titles := append([]string(nil), t[name]...)
		sort.Strings(titles)
		table.Append(name, strings.Join(titles, ", "))
	}
	table.Render()
}

// PrintReport formats the outcome of a settings fan-out.
func PrintReport(w io.Writer, source string, report replicate.Report) {
	fmt.Fprintf(w, "Copied settings from %s: %d succeeded, %d failed", source, report.SuccessCount, report.FailureCount)
	if report.SkippedCount > 0 {
		fmt.Fprintf(w, ", %d skipped", report.SkippedCount)
	}
	fmt.Fprintln(w)
	if len(report.Outcomes) == 0 {
		return
	}
	table := tablewriter.NewWriter(w)
	table.Header("Target", "Status", "Error")
	for _, o := range report.Outcomes {
		status, msg := "OK", "-"
		if !o.Succeeded {
			status = "Failed"
			if o.Skipped {
				status = "Skipped"
			}
			if o.Err != nil {
				msg = o.Err.Error()
			}
		}
		table.Append(o.Target, status, msg)
	}
	table.Render()
}

func formatRoles(e discovery.Entry) string {
	var names []string
	for _, r := range classify.Roles() {
		if _, ok := e.Executables[r]; ok {
			names = append(names, r.String())
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

// dash uses "-" for empty values.
func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(path string) string {
	if path == "" {
		return "-"
	}
	return "yes"
}
