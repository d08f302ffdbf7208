package gnest

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
)

func TestResultOf(t *testing.T) {
	boom := errors.New("boom")

	testCases := []struct {
		name string
		fn   any
		want Result
	}{
		{name: "true", fn: func() bool { return true }, want: Proceed()},
		{name: "false", fn: func() bool { return false }, want: Halt(false)},
		{name: "nothing", fn: func() {}, want: Halt(nil)},
		{name: "typed nil", fn: func() *store { return nil }, want: Halt(nil)},
		{name: "value", fn: func() int { return 42 }, want: Halt(42)},
		{name: "nil error", fn: func() error { return nil }, want: Halt(nil)},
		{name: "error", fn: func() error { return boom }, want: Failed(boom)},
		{name: "value and nil error", fn: func() (string, error) { return "ok", nil }, want: Halt("ok")},
		{name: "true and nil error", fn: func() (bool, error) { return true, nil }, want: Proceed()},
		{name: "value and error", fn: func() (string, error) { return "ok", boom }, want: Failed(boom)},
		{name: "explicit result", fn: func() Result { return Halt("x") }, want: Halt("x")},
		{name: "result as any", fn: func() (any, error) { return Proceed(), nil }, want: Proceed()},
		{name: "result pointer as any", fn: func() any { r := Halt(7); return &r }, want: Halt(7)},
		{name: "nil result pointer", fn: func() *Result { return nil }, want: Halt(nil)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := resultOf(reflect.ValueOf(tc.fn).Call(nil))
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("resultOf() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	resp := NewResponse(201, "created").WithHeader("X-Id", "1")

	testCases := []struct {
		name string
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "string", in: "hi", want: "hi"},
		{name: "record", in: userRecord{ID: 2, Name: "bo"}, want: map[string]any{"id": 2, "name": "bo"}},
		{name: "collection", in: userList{}, want: []any{}},
		{name: "plain struct", in: store{Name: "s"}, want: store{Name: "s"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Normalize(tc.in)); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if Normalize(resp) != resp {
		t.Errorf("Normalize() changed a Responder")
	}
	if resp.Header.Get("X-Id") != "1" {
		t.Errorf("WithHeader() did not set the header")
	}
}

func TestSignalString(t *testing.T) {
	for s, want := range map[Signal]string{Continue: "continue", Stop: "stop", Fail: "fail", Signal(9): "unknown"} {
		if got := s.String(); got != want {
			t.Errorf("Signal(%d).String() = %q, want %q", s, got, want)
		}
	}
}
