package core

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

// ErrConfiguration matches every *ConfigurationError with errors.Is.
var ErrConfiguration = errors.New("invalid connection configuration")

// ConfigurationError is returned when the connection configuration is missing
// or ambiguous. It is never retryable.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrConfiguration) succeed.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ConnectionError wraps a failure reported by the native connect primitive.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// UnknownTypeError is returned when a result column carries a type code the
// coercion table does not cover.
type UnknownTypeError struct {
	Column string
	Type   odbc.SQLType
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown column type: %d (%s) for column %q", int(e.Type), e.Type, e.Column)
}

// CoercionError is returned when a cell cannot be read as its column's type.
type CoercionError struct {
	Column string
	Type   odbc.SQLType
	Value  any
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %v (%T) in column %q to %s: %v", e.Value, e.Value, e.Column, e.Type, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// ExecutionError is a generic statement failure carrying the native message.
type ExecutionError struct {
	SQL     string
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to execute SQL: %s", e.Message)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// QueryTimeoutError is returned when the DBMS aborted a statement because it
// ran past its time limit.
type QueryTimeoutError struct {
	SQL     string
	Message string
	Err     error
}

func (e *QueryTimeoutError) Error() string {
	return fmt.Sprintf("query timed out: %s", e.Message)
}

func (e *QueryTimeoutError) Unwrap() error {
	return e.Err
}

// DuplicateKeyError is returned when a statement violated a uniqueness constraint.
type DuplicateKeyError struct {
	SQL     string
	Message string
	Err     error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %s", e.Message)
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}
