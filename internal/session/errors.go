package session

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrNotSignedIn aborts an action that needs an identity. It is prompted
// once, never surfaced as a failure.
var ErrNotSignedIn = errors.New("not signed in")

type AuthCode string

const (
	CodeInvalidCredentials AuthCode = "invalid-credentials"
	CodeEmailInUse         AuthCode = "email-in-use"
	CodeWeakPassword       AuthCode = "weak-password"
	CodeNetwork            AuthCode = "network"
	CodeUnknown            AuthCode = "unknown"
)

// AuthError wraps a failed identity operation with a stable code the UI can
// present alongside the underlying message.
type AuthError struct {
	Op   string
	Code AuthCode
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func authErr(op string, code AuthCode, err error) *AuthError {
	return &AuthError{Op: op, Code: code, Err: err}
}

// classify maps an SDK error onto the auth taxonomy. The SDK does not expose
// structured codes for authentication failures, so this goes by message.
func classify(op string, err error) *AuthError {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return authErr(op, CodeNetwork, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection") || strings.Contains(msg, "websocket") ||
		strings.Contains(msg, "timeout"):
		return authErr(op, CodeNetwork, err)
	case strings.Contains(msg, "authentication") || strings.Contains(msg, "credentials") ||
		strings.Contains(msg, "signin"):
		return authErr(op, CodeInvalidCredentials, err)
	case strings.Contains(msg, "already exists") || strings.Contains(msg, "already contains"):
		return authErr(op, CodeEmailInUse, err)
	default:
		return authErr(op, CodeUnknown, err)
	}
}
