package auth

import "fmt"

// ErrorKind classifies a verification failure
type ErrorKind int

const (
	// MalformedHeader means the Authorization header is not "<scheme> <credential>".
	MalformedHeader ErrorKind = iota + 1
	// ServerMisconfigured means no verification secret is configured.
	ServerMisconfigured
	// InvalidToken covers signature, expiry, decoding and missing-subject failures.
	InvalidToken
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedHeader:
		return "malformed_header"
	case ServerMisconfigured:
		return "server_misconfigured"
	case InvalidToken:
		return "invalid_token"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Machine-readable codes surfaced to clients
const (
	CodeInvalidHeader       = "invalid_authorization_header"
	CodeServerConfiguration = "server_configuration_error"
	CodeInvalidToken        = "invalid_token"
)

// Error is a token verification failure. Callers render Code, Detail and
// LoginURL to the client.
type Error struct {
	Kind     ErrorKind
	Code     string
	Detail   string
	LoginURL string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Detail
}

// Is matches another *Error of the same kind, so errors.Is works against the
// sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrMalformedHeader     = &Error{Kind: MalformedHeader, Code: CodeInvalidHeader}
	ErrServerMisconfigured = &Error{Kind: ServerMisconfigured, Code: CodeServerConfiguration}
	ErrInvalidToken        = &Error{Kind: InvalidToken, Code: CodeInvalidToken}
)
