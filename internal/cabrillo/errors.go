package cabrillo

import "fmt"

// TimestampError reports a QSO line whose date/time tokens failed to parse.
// It aborts the whole document: a line that looks like an event but carries
// an unreadable time cannot be silently dropped without losing a contact.
type TimestampError struct {
	Line int
	Date string
	Time string
	Err  error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("line %d: malformed timestamp %q %q: %v", e.Line, e.Date, e.Time, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}
