// Package diag is the diagnostic model metair commands report through.
//
// A Diagnostic carries a Severity, a stable Code (rendered as MET1004,
// IR2001, ...), a message and a primary source.Span. Producers emit through
// a Reporter; BagReporter collects into a Bag, which sorts and dedups for
// deterministic output. FormatShort renders one line per diagnostic and
// WriteJSON renders the machine-readable form.
//
// The package knows nothing about metadata or IR errors; the driver maps
// those to codes.
package diag
