package adapter

import (
	"context"
	"errors"
	"regexp"

	"github.com/leapstack-labs/leapodbc/pkg/core"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

var (
	timeoutStates = map[string]bool{"HYT00": true, "HYT01": true, "57014": true}
	timeoutCodes  = map[int]bool{3024: true, 1317: true}

	// 2067 and 1555 are SQLite's extended unique and primary key constraint codes.
	duplicateCodes = map[int]bool{2067: true, 1555: true}
	mysqlDupCodes  = map[int]bool{1062: true, 1586: true}

	// Message patterns are consulted only when the SQLSTATE carries no class.
	timeoutMessage   = regexp.MustCompile(`(?i)\b(statement timeout|query timeout expired|lock wait timeout exceeded|i/o timeout|timed out)\b`)
	duplicateMessage = regexp.MustCompile(`(?i)\b(duplicate key|duplicate entry|unique constraint failed|violates (unique|primary key) constraint)\b`)
)

type failureKind int

const (
	failureExecution failureKind = iota
	failureTimeout
	failureDuplicate
)

// classify maps a native statement failure onto the error taxonomy.
func classify(sql string, err error) error {
	state, code, msg := "", 0, err.Error()
	var nerr *odbc.Error
	if errors.As(err, &nerr) {
		state, code, msg = nerr.SQLState, nerr.NativeCode, nerr.Message
	}

	switch failureOf(err, state, code, msg) {
	case failureTimeout:
		return &core.QueryTimeoutError{SQL: sql, Message: msg, Err: err}
	case failureDuplicate:
		return &core.DuplicateKeyError{SQL: sql, Message: msg, Err: err}
	default:
		return &core.ExecutionError{SQL: sql, Message: msg, Err: err}
	}
}

// failureOf decides by SQLSTATE and native code first. The message only
// breaks the tie when the state is empty or the general HY000.
func failureOf(err error, state string, code int, msg string) failureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return failureTimeout
	case state == "23505",
		state == "23000" && mysqlDupCodes[code],
		duplicateCodes[code]:
		return failureDuplicate
	case timeoutStates[state], timeoutCodes[code]:
		return failureTimeout
	case state != "" && state != "HY000":
		return failureExecution
	case duplicateMessage.MatchString(msg):
		return failureDuplicate
	case timeoutMessage.MatchString(msg):
		return failureTimeout
	default:
		return failureExecution
	}
}
