package gate

import "fmt"

// Machine-readable reasons a username is rejected during setup.
const (
	CodeInvalidEmpty = "INVALID_EMPTY"
	CodeTooShort     = "TOO_SHORT"
	CodeTooLong      = "TOO_LONG"
	CodeInvalidChars = "INVALID_CHARS"
	CodeTaken        = "TAKEN"
)

// SetupError is a rejection from the username setup flow.
type SetupError struct {
	Code string
	msg  string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("username setup: %s: %s", e.Code, e.msg)
}

// ValidateUsername checks shape only; availability is checked separately.
// Callers pass the already-trimmed candidate.
func ValidateUsername(trimmed string) error {
	switch {
	case trimmed == "":
		return &SetupError{Code: CodeInvalidEmpty, msg: "username is required"}
	case len(trimmed) < usernameMinLen:
		return &SetupError{Code: CodeTooShort, msg: fmt.Sprintf("username must be at least %d characters", usernameMinLen)}
	case len(trimmed) > usernameMaxLen:
		return &SetupError{Code: CodeTooLong, msg: fmt.Sprintf("username must be at most %d characters", usernameMaxLen)}
	case !usernamePattern.MatchString(trimmed):
		return &SetupError{Code: CodeInvalidChars, msg: "username may contain only letters, digits and underscores"}
	}
	return nil
}
