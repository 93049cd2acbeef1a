package repo

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

type Code string

const (
	CodePermissionDenied Code = "permission-denied"
	CodeNetwork          Code = "network"
	CodeUnknown          Code = "unknown"
)

// errFeedClosed reports a live feed that ended without being torn down.
var errFeedClosed = errors.New("live feed closed by the server")

// Error wraps a failed store operation with a stable code.
type Error struct {
	Op   string
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func storeErr(op string, code Code, err error) *Error {
	return &Error{Op: op, Code: code, Err: err}
}

// classify maps a driver error onto the store taxonomy. The driver reports
// query failures as strings, so this goes by message.
func classify(op string, err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return storeErr(op, CodeNetwork, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection") || strings.Contains(msg, "websocket") ||
		strings.Contains(msg, "timeout") || strings.Contains(msg, "broken pipe"):
		return storeErr(op, CodeNetwork, err)
	case strings.Contains(msg, "permission") || strings.Contains(msg, "not allowed"):
		return storeErr(op, CodePermissionDenied, err)
	default:
		return storeErr(op, CodeUnknown, err)
	}
}
