package driver

import (
	"errors"
	"fmt"
	"io/fs"

	"fortio.org/safecast"

	"metair/internal/diag"
	"metair/internal/ir"
	"metair/internal/meta"
	"metair/internal/source"
	"metair/internal/target"
)

// Classify maps an error from the decode, IR or target layers to a
// diagnostic code.
func Classify(err error) diag.Code {
	if me, ok := meta.AsError(err); ok {
		switch me.Kind {
		case meta.OutOfRange:
			return diag.MetaOutOfRange
		case meta.CyclicQualifiedName:
			return diag.MetaCyclicName
		case meta.UnknownFlagValue:
			return diag.MetaUnknownFlag
		case meta.MalformedTable:
			if errors.Is(err, meta.ErrUnknownSchema) {
				return diag.MetaUnknownSchema
			}
			return diag.MetaMalformedTable
		}
	}
	switch {
	case errors.Is(err, ir.ErrIncompleteRewrite):
		return diag.IRIncompleteRewrite
	case errors.Is(err, ir.ErrInvalidTree):
		return diag.IRInvalidTree
	case errors.Is(err, ir.ErrUnknownKind):
		return diag.IRUnknownKind
	case errors.Is(err, target.ErrUnknownTarget), errors.Is(err, target.ErrUnknownHost):
		return diag.TargetUnknown
	case errors.Is(err, target.ErrUnavailable):
		return diag.TargetUnavailable
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return diag.IOLoadFileError
	}
	return diag.UnknownCode
}

// errorDiagnostic turns err into an error diagnostic. Malformed tables point
// at the failing byte offset.
func errorDiagnostic(err error, file source.FileID) diag.Diagnostic {
	span := source.Span{File: file}
	if me, ok := meta.AsError(err); ok && me.Offset > 0 {
		if off, convErr := safecast.Conv[uint32](me.Offset); convErr == nil {
			span.Start, span.End = off, off
		}
	}
	d := diag.NewError(Classify(err), span, err.Error())
	if me, ok := meta.AsError(err); ok && me.Table != "" {
		d = d.WithNote(span, fmt.Sprintf("in %s table", me.Table))
	}
	return d
}
