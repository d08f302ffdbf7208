package gnest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestRegistryRegister(t *testing.T) {
	testCases := []struct {
		name    string
		factory any
		wantErr error
	}{
		{name: "prototype pointer", factory: &userController{}},
		{name: "prototype value", factory: store{}},
		{name: "constructor", factory: func(s *store) *userController { return &userController{Store: s} }},
		{name: "constructor with error", factory: func() (*store, error) { return &store{}, nil }},
		{name: "nil", factory: nil, wantErr: ErrInvalidClass},
		{name: "scalar prototype", factory: 42, wantErr: ErrInvalidClass},
		{name: "no result", factory: func() {}, wantErr: ErrInvalidClass},
		{name: "error only", factory: func() error { return nil }, wantErr: ErrInvalidClass},
		{name: "variadic", factory: func(s ...*store) *userController { return nil }, wantErr: ErrInvalidClass},
		{name: "scalar parameter", factory: func(n int) *store { return nil }, wantErr: ErrInvalidClass},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewRegistry().Register("c", tc.factory)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegistryDuplicateAndNames(t *testing.T) {
	r := NewRegistry().
		MustRegister("b", &store{}).
		MustRegister("a", &userController{})

	if err := r.Register("a", &store{}); !errors.Is(err, ErrDuplicateClass) {
		t.Fatalf("Register(dup) error = %v, want ErrDuplicateClass", err)
	}
	if err := r.Register("", &store{}); !errors.Is(err, ErrInvalidClass) {
		t.Fatalf("Register(\"\") error = %v, want ErrInvalidClass", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if !r.Has("a") || r.Has("c") {
		t.Errorf("Has() gave wrong answer")
	}
	c, _ := r.Lookup("a")
	if got, want := c.Type().String(), "*gnest.userController"; got != want {
		t.Errorf("Type() = %s, want %s", got, want)
	}
}

func TestMustRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustRegister did not panic")
		}
	}()
	NewRegistry().MustRegister("bad", 1)
}
