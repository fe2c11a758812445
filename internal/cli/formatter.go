package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dirsum/internal/dirsum"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *dirsum.Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// percent returns part as a percentage of total.
func percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return 100.0 * float64(part) / float64(total)
}

// PrintTable outputs the report in human-readable table format.
// Bundle sections are only printed when they have items.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(report *dirsum.Report, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintf(w, "Directory Count:\t%d\n", report.DirectoryCount)
	fmt.Fprintf(w, "File Count:\t%d\n", report.FileCount)
	fmt.Fprintf(w, "Total File Size:\t%s (%d bytes)\n",
		humanize.IBytes(report.TotalFileSize), report.TotalFileSize)

	fmt.Fprintln(w, "\nFile extensions:\t\t")

	for i, ext := range report.Extensions {
		name := ext.Extension
		if name == "" {
			name = "\"\""
		}

		fmt.Fprintf(w, "  %d) %s:\t%d files, %s (%.1f%%)\n",
			i+1, name, ext.Count, humanize.IBytes(ext.TotalSize), percent(ext.TotalSize, report.TotalFileSize))
	}

	fmt.Fprintln(w, "\nFiles without extension:\t\t")

	for i, f := range report.WithoutExtension {
		fmt.Fprintf(w, "  %d) '%s'\t%s\n", i+1, f.Path, humanize.IBytes(f.Size))
	}

	fmt.Fprintln(w, "\nTop large files:\t\t")

	for i, f := range report.TopLarge {
		fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%)\n",
			i+1, f.Path, humanize.IBytes(f.Size), percent(f.Size, report.TotalFileSize))
	}

	printItems(w, "Framework Items", report.Frameworks)
	printItems(w, "Plugin Items", report.Plugins)

	if report.ProbeErrors > 0 {
		fmt.Fprintf(w, "\nUnreadable sizes:\t%d\n", report.ProbeErrors)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", report.Elapsed)

	return w.Flush()
}

// printItems prints a bundle section if it has items.
func printItems(w io.Writer, title string, items []dirsum.DirInfo) {
	if len(items) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s:\t\t\n", title)

	for i, item := range items {
		fmt.Fprintf(w, "  %d) '%s'\t%s\n", i+1, item.Path, humanize.IBytes(item.Size))
	}
}
