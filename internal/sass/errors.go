package sass

import "fmt"

// PluginName is the default component tag carried by errors leaving this
// package. Callers embedding the engine under another name pass their own
// tag to NewPluginError.
const PluginName = "sasspipe"

// PluginError is the single error envelope crossing the package boundary:
// a component tag, an underlying cause, and a display-control flag.
type PluginError struct {
	Plugin string
	Err    error

	// ShowProperties controls whether Error includes positional details
	// from an underlying CompileError. Compile failures suppress it to
	// keep compiler internals out of user-facing output.
	ShowProperties bool
}

// NewPluginError wraps cause under the given component tag. Properties
// are shown by default.
func NewPluginError(plugin string, cause error) *PluginError {
	return &PluginError{Plugin: plugin, Err: cause, ShowProperties: true}
}

func (e *PluginError) Error() string {
	if e.ShowProperties {
		if ce, ok := e.Err.(*CompileError); ok && ce.Line > 0 {
			return fmt.Sprintf("%s: %s (line %d, column %d)", e.Plugin, ce.Error(), ce.Line, ce.Column)
		}
	}
	return fmt.Sprintf("%s: %s", e.Plugin, e.Err)
}

func (e *PluginError) Unwrap() error { return e.Err }

// Span is the source region a compiler error points at. Start or End may
// be absent.
type Span struct {
	Start *SpanPosition
	End   *SpanPosition
}

// SpanPosition is a 0-based position as reported by the compiler.
type SpanPosition struct {
	Line   int
	Column int
}

// CompileError is the raw error shape produced by a Compiler, annotated
// in place by Normalize.
type CompileError struct {
	// Message is the compiler's generic, formatted message.
	Message string

	// SassMessage is the domain-specific message without formatting.
	// Optional.
	SassMessage string

	// File names the input the compiler was processing. Optional.
	File string

	// Span is the source region of the failure. Optional.
	Span *Span

	// Line and Column are filled by Normalize: 1-based, 0 meaning the
	// raw error carried no span.
	Line   int
	Column int

	// MessageOriginal and MessageFormatted are filled by Normalize.
	MessageOriginal  string
	MessageFormatted string
}

func (e *CompileError) Error() string {
	if e.MessageFormatted != "" {
		return e.MessageFormatted
	}
	return e.Message
}
