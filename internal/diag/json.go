package diag

import (
	"encoding/json"
	"io"

	"metair/internal/source"
)

// LocationJSON is a span in JSON output. Line and column are omitted for
// spans outside fs.
type LocationJSON struct {
	File      string `json:"file,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Line      uint32 `json:"line,omitempty"`
	Col       uint32 `json:"col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// OutputJSON is the root of JSON output.
type OutputJSON struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(fs *source.FileSet, span source.Span) LocationJSON {
	path, pos := locate(fs, span)
	return LocationJSON{
		File:      path,
		StartByte: span.Start,
		EndByte:   span.End,
		Line:      pos.Line,
		Col:       pos.Col,
	}
}

// BuildJSON converts diags without serializing them. Timing diagnostics
// always keep their notes since the note is their payload.
func BuildJSON(diags []Diagnostic, fs *source.FileSet, includeNotes bool) OutputJSON {
	out := OutputJSON{Diagnostics: make([]DiagnosticJSON, 0, len(diags))}
	for _, d := range diags {
		dj := DiagnosticJSON{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: makeLocation(fs, d.Primary),
		}
		if (includeNotes || d.Code == ObsTimings) && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for i, n := range d.Notes {
				dj.Notes[i] = NoteJSON{Message: n.Msg, Location: makeLocation(fs, n.Span)}
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// WriteJSON writes diags as indented JSON.
func WriteJSON(w io.Writer, diags []Diagnostic, fs *source.FileSet, includeNotes bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildJSON(diags, fs, includeNotes))
}
