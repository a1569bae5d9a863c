package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/dupscan/internal/log"
	"github.com/nao1215/dupscan/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SimpleWriter outputs the plain text report.
//
// Each group is printed as a four line block followed by a blank line:
//
//	Hash: <fingerprint>
//	First Instance: <representative path>
//	Count: <member count>
//	Size: <size> bytes
//
// The block layout is stable and meant to be grepped; the summary footer
// is for people and can be turned off. Control characters in paths are
// escaped so a file name cannot break the layout.
type SimpleWriter struct {
	baseWriter

	// summary controls whether the footer is printed.
	summary bool

	// groups controls whether the per-group blocks are printed.
	groups bool

	// members prints every member path under its group.
	members bool

	printer *message.Printer
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithSummary enables or disables the summary footer.
func WithSummary(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.summary = show
	}
}

// WithGroups enables or disables the per-group blocks. With groups off
// and the summary on, only the footer is written.
func WithGroups(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.groups = show
	}
}

// WithMembers lists every member path below its group block.
func WithMembers(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.members = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
// Group blocks and the summary footer are enabled by default.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		summary:    true,
		groups:     true,
		printer:    message.NewPrinter(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs every group in rank order, then the summary.
func (w *SimpleWriter) Write(result *model.ScanResult) (int, error) {
	var sb strings.Builder

	if w.groups {
		for _, g := range result.Groups {
			w.writeGroup(&sb, g)
		}
	}

	if w.summary {
		w.writeSummary(&sb, result)
	}

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeGroup(sb *strings.Builder, g model.Group) {
	rep := g.Representative()
	fmt.Fprintf(sb, "Hash: %s\n", g.Fingerprint)
	fmt.Fprintf(sb, "First Instance: %s\n", log.Escape(rep.Path))
	fmt.Fprintf(sb, "Count: %d\n", g.Count())
	fmt.Fprintf(sb, "Size: %d bytes\n", rep.Size)

	if w.members && g.IsDuplicate() {
		for _, m := range g.Members[1:] {
			fmt.Fprintf(sb, "  %s\n", log.Escape(m.Path))
		}
	}
	sb.WriteString("\n")
}

// writeSummary writes the footer with totals.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, result *model.ScanResult) {
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString(w.printer.Sprintf("Scanned:     %d files under %s\n",
		result.Candidates-result.Failed, log.Escape(result.Root)))
	sb.WriteString(w.printer.Sprintf("Groups:      %d listed (%d with duplicates)\n",
		len(result.Groups), result.DuplicateGroups()))
	sb.WriteString(w.printer.Sprintf("Listed:      %d files, %s\n",
		result.TotalFiles(), humanize.IBytes(uint64(max(result.TotalBytes(), 0)))))
	if result.HiddenGroups > 0 {
		sb.WriteString(w.printer.Sprintf("Hidden:      %d groups\n", result.HiddenGroups))
	}
	sb.WriteString(w.printer.Sprintf("Duplicates:  %d redundant files, %s reclaimable\n",
		result.DuplicateFiles(), humanize.IBytes(uint64(max(result.ReclaimableBytes(), 0)))))
	if result.Failed > 0 {
		sb.WriteString(w.printer.Sprintf("Failed:      %d of %d files could not be read\n",
			result.Failed, result.Candidates))
	}
	fmt.Fprintf(sb, "Algorithm:   %s, finished in %s\n",
		result.Algorithm, result.Elapsed.Round(1e6))
}
