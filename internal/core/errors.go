package core

import "fmt"

// ErrorCode classifies configuration errors raised by the engine.
type ErrorCode string

const (
	CodeUnknownCode           ErrorCode = "UNKNOWN_CODE"
	CodeNoBlankDefined        ErrorCode = "NO_BLANK_DEFINED"
	CodeEmptyAliasExpansion   ErrorCode = "EMPTY_ALIAS_EXPANSION"
	CodeMissingPlayerMarker   ErrorCode = "MISSING_PLAYER_MARKER"
	CodeMultiplePlayerMarkers ErrorCode = "MULTIPLE_PLAYER_MARKERS"
	CodeUnknownSymbol         ErrorCode = "UNKNOWN_SYMBOL"
	CodeInvalidColor          ErrorCode = "INVALID_COLOR"
	CodeGridSize              ErrorCode = "GRID_SIZE"
	CodeInvalidSpawn          ErrorCode = "INVALID_SPAWN"
)

// Error is a configuration error: the design being played or edited is
// corrupt or inconsistent. These are never retried.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code, so that the
// sentinel values below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError builds an *Error with a formatted message.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return newError(code, format, args...)
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is.
var (
	ErrUnknownCode           = &Error{Code: CodeUnknownCode, Message: "color code not in palette"}
	ErrNoBlankDefined        = &Error{Code: CodeNoBlankDefined, Message: "blank alias expands to nothing"}
	ErrEmptyAliasExpansion   = &Error{Code: CodeEmptyAliasExpansion, Message: "alias expands to nothing"}
	ErrMissingPlayerMarker   = &Error{Code: CodeMissingPlayerMarker, Message: "rule has no player marker"}
	ErrMultiplePlayerMarkers = &Error{Code: CodeMultiplePlayerMarkers, Message: "rule has more than one player marker"}
	ErrUnknownSymbol         = &Error{Code: CodeUnknownSymbol, Message: "symbol is neither a color code nor an alias"}
	ErrInvalidColor          = &Error{Code: CodeInvalidColor, Message: "invalid color"}
	ErrGridSize              = &Error{Code: CodeGridSize, Message: "invalid grid size"}
	ErrInvalidSpawn          = &Error{Code: CodeInvalidSpawn, Message: "spawn point outside the grid"}
)
