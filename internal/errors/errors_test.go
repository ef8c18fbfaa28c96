package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestGetCode(t *testing.T) {
	err := E(CodeNotFound, "item not found")
	if got := GetCode(err); got != CodeNotFound {
		t.Fatalf("code = %s, want %s", got, CodeNotFound)
	}
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("code = %s, want %s", got, CodeUnknown)
	}
	if got := GetCode(nil); got != CodeUnknown {
		t.Fatalf("code = %s, want %s", got, CodeUnknown)
	}
}

func TestGetCodeThroughWrapping(t *testing.T) {
	cause := E(CodeInsufficientFunds, "not enough gold")
	wrapped := Wrap(CodeInternal, "construct building", cause)
	// The outermost typed error wins.
	if got := GetCode(wrapped); got != CodeInternal {
		t.Fatalf("code = %s, want %s", got, CodeInternal)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeInvalidState, http.StatusConflict},
		{CodeInvalidOperation, http.StatusUnprocessableEntity},
		{CodeInsufficientFunds, http.StatusConflict},
		{CodeUnknownBuilding, http.StatusBadRequest},
		{CodeTerminalState, http.StatusConflict},
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInternal, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Fatalf("%s status = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := Ef(CodeNotFound, "session %q not found", "abc")
	if err.Error() != `session "abc" not found` {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
