package meta

import (
	"errors"
	"fmt"
)

// ErrorKind classifies decode failures.
type ErrorKind uint8

const (
	// OutOfRange: an ID is outside its table.
	OutOfRange ErrorKind = iota + 1
	// CyclicQualifiedName: a parent chain does not reach the root.
	CyclicQualifiedName
	// UnknownFlagValue: a packed field holds a value with no meaning.
	UnknownFlagValue
	// MalformedTable: a serialized table is structurally broken.
	MalformedTable
)

// Sentinels for errors.Is matching against *Error.
var (
	ErrOutOfRange          = errors.New("id out of range")
	ErrCyclicQualifiedName = errors.New("cyclic qualified name")
	ErrUnknownFlagValue    = errors.New("unknown flag value")
	ErrMalformedTable      = errors.New("malformed table")
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfRange:
		return "OutOfRange"
	case CyclicQualifiedName:
		return "CyclicQualifiedName"
	case UnknownFlagValue:
		return "UnknownFlagValue"
	case MalformedTable:
		return "MalformedTable"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case OutOfRange:
		return ErrOutOfRange
	case CyclicQualifiedName:
		return ErrCyclicQualifiedName
	case UnknownFlagValue:
		return ErrUnknownFlagValue
	case MalformedTable:
		return ErrMalformedTable
	default:
		return nil
	}
}

// Error is the typed failure returned by every decode path.
// ID holds the offending table index or flag value; Offset holds the byte
// offset inside a table blob and is -1 when not applicable.
type Error struct {
	Kind   ErrorKind
	Table  string
	ID     int
	Offset int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s in %s", e.Kind, e.Table)
	if e.Kind == MalformedTable {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	} else {
		msg += fmt.Sprintf(" (id %d)", e.ID)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var me *Error
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

func outOfRange(table string, id, length int) *Error {
	return &Error{
		Kind:   OutOfRange,
		Table:  table,
		ID:     id,
		Offset: -1,
		Detail: fmt.Sprintf("table has %d entries", length),
	}
}

func malformed(table string, offset int, detail string, cause error) *Error {
	return &Error{
		Kind:   MalformedTable,
		Table:  table,
		ID:     -1,
		Offset: offset,
		Detail: detail,
		Err:    cause,
	}
}

func unknownFlag(field string, value uint32) *Error {
	return &Error{
		Kind:   UnknownFlagValue,
		Table:  "flags",
		ID:     int(value),
		Offset: -1,
		Detail: field,
	}
}
