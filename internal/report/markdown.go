package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/dupscan/internal/log"
	"github.com/nao1215/dupscan/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// chartGroups is the number of groups shown in the pie chart.
const chartGroups = 5

// MarkdownWriter outputs results in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.ScanResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)
	w.writeGroups(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.ScanResult) {
	md.H1("Duplicate File Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root", "`" + escapeCell(result.Root) + "`"},
			{"Scan Date", result.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Algorithm", result.Algorithm},
			{"Files Scanned", strconv.Itoa(result.Candidates - result.Failed)},
			{"Listed Size", humanize.IBytes(uint64(max(result.TotalBytes(), 0)))},
			{"Unreadable Files", strconv.Itoa(result.Failed)},
			{"Elapsed", result.Elapsed.Round(1e6).String()},
		},
	})
	md.PlainText("")
}

// writeSummary writes the totals and an alert describing them.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.ScanResult) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Groups Listed", strconv.Itoa(len(result.Groups))},
			{"Groups Hidden", strconv.Itoa(result.HiddenGroups)},
			{"Duplicate Groups", strconv.Itoa(result.DuplicateGroups())},
			{"Redundant Files", strconv.Itoa(result.DuplicateFiles())},
			{"Reclaimable", humanize.IBytes(uint64(max(result.ReclaimableBytes(), 0)))},
		},
	})
	md.PlainText("")

	if result.HasDuplicates() {
		w.writePieChart(md, result)
	}

	w.writeAlert(md, result)
}

// writePieChart writes a mermaid pie chart of the largest duplicate groups
// by reclaimable bytes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *model.ScanResult) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Reclaimable Bytes by Group"),
		piechart.WithShowData(true),
	)

	shown := 0
	for _, g := range result.Groups {
		if shown == chartGroups {
			break
		}
		if !g.IsDuplicate() || g.WastedBytes() == 0 {
			continue
		}
		chart.LabelAndIntValue(g.Fingerprint.Short(12), uint64(g.WastedBytes()))
		shown++
	}
	if shown == 0 {
		return
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the scan outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.ScanResult) {
	switch {
	case result.Failed > 0:
		md.Warningf(
			"%d file(s) could not be read and are missing from this report.",
			result.Failed,
		)
	case result.HasDuplicates():
		md.Note(fmt.Sprintf(
			"%d redundant file(s) found in %d group(s).",
			result.DuplicateFiles(), result.DuplicateGroups(),
		))
	default:
		md.Tip("No duplicate files found.")
	}
	md.PlainText("")
}

// writeGroups writes one table row per group and the member lists of
// duplicate groups.
func (w *MarkdownWriter) writeGroups(md *markdown.Markdown, result *model.ScanResult) {
	md.H2("Groups")
	md.PlainText("")

	if len(result.Groups) == 0 {
		md.PlainText("No files fingerprinted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(result.Groups))
	for i, s := range result.Summaries() {
		rows[i] = []string{
			"`" + s.Fingerprint.Short(16) + "`",
			escapeCell(s.RepresentativePath),
			strconv.Itoa(s.Count),
			strconv.FormatInt(s.Size, 10),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Hash", "First Instance", "Count", "Size (bytes)"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, g := range result.Groups {
		if !g.IsDuplicate() {
			continue
		}
		paths := g.Paths()
		for i, p := range paths {
			paths[i] = log.Escape(p)
		}
		md.Details(g.Fingerprint.String(), strings.Join(paths, "\n"))
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [dupscan](https://github.com/nao1215/dupscan)*")
}

// escapeCell keeps a path from breaking the table layout.
func escapeCell(s string) string {
	return strings.ReplaceAll(log.Escape(s), "|", `\|`)
}
