// Package errors provides structured error handling for the game engine.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInternal represents an internal failure (storage, wiring).
	CodeInternal Code = "INTERNAL"

	// CodeInvalidArgument indicates malformed or missing input.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// CodeNotFound indicates a missing session, item, or index.
	CodeNotFound Code = "NOT_FOUND"

	// CodeInvalidState indicates the operation is invalid for the current
	// game state, such as resolving a combat round while not in combat.
	CodeInvalidState Code = "INVALID_STATE"

	// CodeInvalidOperation indicates a semantically disallowed operation,
	// such as equipping a consumable.
	CodeInvalidOperation Code = "INVALID_OPERATION"

	// CodeInsufficientFunds indicates the session cannot afford the cost.
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"

	// CodeUnknownBuilding indicates an unrecognized building type.
	CodeUnknownBuilding Code = "UNKNOWN_BUILDING"

	// CodeTerminalState indicates the settlement has no further upgrade.
	CodeTerminalState Code = "TERMINAL_STATE"

	// CodeUnauthorized indicates a missing or invalid player-context token.
	CodeUnauthorized Code = "UNAUTHORIZED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument, CodeUnknownBuilding:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidState, CodeInsufficientFunds, CodeTerminalState:
		return http.StatusConflict
	case CodeInvalidOperation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
