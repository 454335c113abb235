package diag

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"metair/internal/source"
)

type shortLine struct {
	sev    Severity
	label  string
	code   string
	path   string
	line   uint32
	column uint32
	msg    string
}

// FormatShort renders one line per diagnostic (and per note when
// includeNotes is set):
//
//	error MET1004 lib/a.kmeta:1:1 malformed table
//
// Lines are sorted by path, position, severity and code. Spans pointing to
// files missing from fs are rendered with an empty position.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	lines := make([]shortLine, 0, len(diags))
	for _, d := range diags {
		path, pos := locate(fs, d.Primary)
		lines = append(lines, shortLine{
			sev: d.Severity, label: d.Severity.Label(), code: d.Code.ID(),
			path: path, line: pos.Line, column: pos.Col, msg: sanitize(d.Message),
		})
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			npath, npos := locate(fs, n.Span)
			lines = append(lines, shortLine{
				sev: d.Severity, label: "note", code: d.Code.ID(),
				path: npath, line: npos.Line, column: npos.Col, msg: sanitize(n.Msg),
			})
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		switch {
		case a.path != b.path:
			return strings.Compare(a.path, b.path)
		case a.line != b.line:
			return cmpInt(int(a.line), int(b.line))
		case a.column != b.column:
			return cmpInt(int(a.column), int(b.column))
		case a.sev != b.sev:
			return cmpInt(int(b.sev), int(a.sev))
		}
		return strings.Compare(a.code, b.code)
	})

	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if l.path == "" {
			fmt.Fprintf(&sb, "%s %s %s", l.label, l.code, l.msg)
			continue
		}
		fmt.Fprintf(&sb, "%s %s %s:%d:%d %s", l.label, l.code, l.path, l.line, l.column, l.msg)
	}
	return sb.String()
}

func locate(fs *source.FileSet, span source.Span) (string, source.LineCol) {
	if fs == nil {
		return "", source.LineCol{}
	}
	f, ok := fs.Lookup(span.File)
	if !ok {
		return "", source.LineCol{}
	}
	path := filepath.ToSlash(fs.RelativePath(f))
	if f.Flags&source.FileBinary != 0 {
		return path, source.LineCol{Line: 1, Col: span.Start + 1}
	}
	start, _ := fs.Resolve(span)
	return path, start
}

func sanitize(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
