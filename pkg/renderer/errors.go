package renderer

import "fmt"

// RenderError reports a drawing or finalization failure. No partial document accompanies it.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() (msg string) {
	msg = fmt.Sprintf("render error: %s", e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *RenderError) Unwrap() (cause error) {
	cause = e.Cause
	return cause
}

// EncodingError reports text the single-byte PDF fonts cannot represent.
type EncodingError struct {
	Field string
	Rune  rune
}

func (e *EncodingError) Error() (msg string) {
	msg = fmt.Sprintf("encoding error: %s contains %U which the document fonts cannot represent", e.Field, e.Rune)
	return msg
}
