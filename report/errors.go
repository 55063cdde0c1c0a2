package report

import (
	"fmt"
)

// TextSpan represents a range or "span" of source text.  It is used to specify
// erroneous or otherwise significant source text.  Text spans are inclusive on
// both sides: the starting position is the position of the first character in
// the span and the ending position is the position of the last character in
// the span.  The line and column numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.  Either span may be nil.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	if start == nil {
		return end
	} else if end == nil {
		return start
	}

	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// -----------------------------------------------------------------------------

// LocalCompileError is a compilation error that occurs in a context in which
// the file is known by the error handler and thus doesn't need to be passed
// along with the error.
type LocalCompileError struct {
	// The error message.
	Message string

	// The span over which the error occurs.  This may be nil.
	Span *TextSpan
}

func (lce *LocalCompileError) Error() string {
	if lce.Span == nil {
		return lce.Message
	}

	return fmt.Sprintf("%d:%d: %s", lce.Span.StartLine+1, lce.Span.StartCol+1, lce.Message)
}

// Raise creates a new local compile error.
func Raise(span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// -----------------------------------------------------------------------------

// InternalError is an internal compiler error: an error resulting from a bug
// or unexpected condition inside the compiler itself rather than from
// erroneous input.
type InternalError struct {
	Message string
}

func (ie *InternalError) Error() string {
	return "internal compiler error: " + ie.Message
}

// ReportICE raises an internal compiler error.  These errors are not intended
// to ever happen.  The error unwinds as a panic until it is caught by the
// driver which displays it and aborts the process.
func ReportICE(message string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(message, args...)})
}

// CatchErrors catches any local compile error thrown by a `panic` during a
// stage of compilation and stores it into `err`.  All other panics, internal
// compiler errors included, keep unwinding.
// NB: This function must ALWAYS be deferred.
func CatchErrors(err *error) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*LocalCompileError); ok {
			*err = cerr
		} else {
			panic(x)
		}
	}
}

// CatchICE recovers an internal compiler error into `err`.  Any other panic
// keeps unwinding.
// NB: This function must ALWAYS be deferred.
func CatchICE(err **InternalError) {
	if x := recover(); x != nil {
		if ice, ok := x.(*InternalError); ok {
			*err = ice
		} else {
			panic(x)
		}
	}
}
