package reco

import "fmt"

// InputFormatError represents a malformed line in the TDC log.
type InputFormatError struct {
	Line int
	Text string
	Err  error
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("malformed record on line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *InputFormatError) Unwrap() error {
	return e.Err
}

// TriggerError is returned when a batch does not start with a trigger record.
type TriggerError struct {
	Channel int
	Reason  string
}

func (e *TriggerError) Error() string {
	return fmt.Sprintf("error while getting trigger on channel %d: %s", e.Channel, e.Reason)
}

// InvariantViolationError is returned when a hit taken from a window lies
// before its reference. It means the window or the locator is broken, the
// data cannot produce it.
type InvariantViolationError struct {
	Axis      string
	Index     int
	Reference int64
	Hit       int64
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("axis %s: hit %d precedes reference %d (event %d)", e.Axis, e.Hit, e.Reference, e.Index)
}

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}
