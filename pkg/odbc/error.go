package odbc

import "fmt"

// Error is a diagnostic record returned by the native layer.
type Error struct {
	// SQLState is the five character SQLSTATE, empty when the driver gave none.
	SQLState string
	// NativeCode is the vendor-specific error number, 0 if not applicable.
	NativeCode int
	// Message is the driver's human readable message.
	Message string
	// Err is the underlying driver error, if any.
	Err error
}

func (e *Error) Error() string {
	if e.SQLState == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%d) %s", e.SQLState, e.NativeCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
