package sass

// noMessage is substituted when a compiler surfaces a failure without any
// error value.
const noMessage = "an error occurred with no additional information"

// Normalize annotates a raw compiler error with 1-based position fields
// and the dual message fields, mutating and returning the same value so
// callers holding a reference observe the annotations.
//
// A nil input yields a synthesized generic error. Line and Column are set
// only when the raw error carries a span with a start point; absent line
// or column fields inside that point default to 0 before the 1-based
// increment.
func Normalize(e *CompileError) *CompileError {
	if e == nil {
		e = &CompileError{Message: noMessage}
	}

	if e.Span != nil && e.Span.Start != nil {
		e.Line = e.Span.Start.Line + 1
		e.Column = e.Span.Start.Column + 1
	}

	e.MessageOriginal = e.SassMessage
	if e.MessageOriginal == "" {
		e.MessageOriginal = e.Message
	}
	e.MessageFormatted = e.Message

	return e
}
