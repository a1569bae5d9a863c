package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/dupscan/internal/model"
)

// JSONWriter outputs results in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is embedded in the document when non-empty.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the dupscan version in the output document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result wrapped in a JSONReport.
func (w *JSONWriter) Write(result *model.ScanResult) (int, error) {
	return w.writeJSON(NewJSONReport(result, w.version))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	// Version is the dupscan version that generated this report.
	Version string `json:"version,omitempty"`

	// Summary holds the totals for quick access.
	Summary JSONSummary `json:"summary"`

	// Groups is the per-group reporter view in rank order.
	Groups []model.Summary `json:"groups"`

	// Result is the full result including every member path.
	Result *model.ScanResult `json:"result"`
}

// JSONSummary holds scan totals.
type JSONSummary struct {
	Root             string  `json:"root"`
	Algorithm        string  `json:"algorithm"`
	Candidates       int     `json:"candidates"`
	Failed           int     `json:"failed"`
	Groups           int     `json:"groups"`
	HiddenGroups     int     `json:"hidden_groups,omitempty"`
	DuplicateGroups  int     `json:"duplicate_groups"`
	DuplicateFiles   int     `json:"duplicate_files"`
	ReclaimableBytes int64   `json:"reclaimable_bytes"`
	ElapsedSeconds   float64 `json:"elapsed_seconds"`
}

// NewJSONReport builds the JSON document for result.
func NewJSONReport(result *model.ScanResult, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Summary: JSONSummary{
			Root:             result.Root,
			Algorithm:        result.Algorithm,
			Candidates:       result.Candidates,
			Failed:           result.Failed,
			Groups:           len(result.Groups),
			HiddenGroups:     result.HiddenGroups,
			DuplicateGroups:  result.DuplicateGroups(),
			DuplicateFiles:   result.DuplicateFiles(),
			ReclaimableBytes: result.ReclaimableBytes(),
			ElapsedSeconds:   result.Elapsed.Seconds(),
		},
		Groups: result.Summaries(),
		Result: result,
	}
}
