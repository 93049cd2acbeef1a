package blob

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/aws/smithy-go"
)

type Code string

const (
	CodeQuotaExceeded Code = "quota-exceeded"
	CodeNetwork       Code = "network"
	CodeUnknown       Code = "unknown"
)

// UploadError wraps a failed transfer with a stable code.
type UploadError struct {
	Op   string
	Code Code
	Err  error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func classify(op string, err error) *UploadError {
	wrap := func(code Code) *UploadError {
		return &UploadError{Op: op, Code: code, Err: err}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "QuotaExceeded", "EntityTooLarge", "ServiceQuotaExceededException":
			return wrap(CodeQuotaExceeded)
		case "RequestTimeout", "SlowDown":
			return wrap(CodeNetwork)
		default:
			return wrap(CodeUnknown)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return wrap(CodeNetwork)
	}
	if msg := strings.ToLower(err.Error()); strings.Contains(msg, "connection") ||
		strings.Contains(msg, "timeout") {
		return wrap(CodeNetwork)
	}
	return wrap(CodeUnknown)
}
