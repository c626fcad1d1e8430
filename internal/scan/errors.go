package scan

import "fmt"

// MalformedScanError reports scan text that does not follow the legacy layout.
// Line is 1-based; zero means the problem concerns the record as a whole.
type MalformedScanError struct {
	Line   int
	Reason string
}

func (e *MalformedScanError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed scan: line %d: %s", e.Line, e.Reason)
	}
	return "malformed scan: " + e.Reason
}

func malformed(line int, format string, args ...any) error {
	return &MalformedScanError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// DecodeError reports upload content that could not be turned into text.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode upload: %s: %v", e.Reason, e.Err)
	}
	return "decode upload: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }
