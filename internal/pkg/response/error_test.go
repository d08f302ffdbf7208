package response

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
)

func TestStatusOf(t *testing.T) {
	cause := errors.New("duplicate key")
	testCases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "app error", err: NotFound("no such user"), wantCode: http.StatusNotFound, wantMsg: "no such user"},
		{name: "wrapped app error", err: errors.WithMessage(Conflict("taken"), "register"), wantCode: http.StatusConflict, wantMsg: "taken"},
		{name: "wrap", err: Wrap(http.StatusBadRequest, cause), wantCode: http.StatusBadRequest, wantMsg: "duplicate key"},
		{name: "plain", err: cause, wantCode: http.StatusInternalServerError, wantMsg: "internal server error"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := StatusOf(tc.err)
			if code != tc.wantCode || msg != tc.wantMsg {
				t.Errorf("StatusOf() = %d %q, want %d %q", code, msg, tc.wantCode, tc.wantMsg)
			}
		})
	}
	if !errors.Is(Wrap(http.StatusBadRequest, cause), cause) {
		t.Errorf("Wrap() lost the cause")
	}
}
