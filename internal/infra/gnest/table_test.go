package gnest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTableMerge(t *testing.T) {
	testCases := []struct {
		name     string
		end      bool
		wantKeys []string
		wantAuth string
	}{
		{
			name:     "append",
			end:      true,
			wantKeys: []string{"auth", "log", "cors", "throttle"},
			wantAuth: "mw.Strict",
		},
		{
			name:     "prepend",
			end:      false,
			wantKeys: []string{"cors", "throttle", "auth", "log"},
			wantAuth: "mw.Auth",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tbl := NewTable(map[string]string{"log": "mw.Log", "auth": "mw.Auth"})
			tbl.Merge(map[string]string{"throttle": "mw.Throttle", "cors": "mw.Cors", "auth": "mw.Strict"}, tc.end)

			if diff := cmp.Diff(tc.wantKeys, tbl.Keys()); diff != "" {
				t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
			}
			if got, _ := tbl.Get("auth"); got != tc.wantAuth {
				t.Errorf("Get(auth) = %q, want %q", got, tc.wantAuth)
			}
			if got, _ := tbl.Get("log"); got != "mw.Log" {
				t.Errorf("Merge dropped an existing entry: log = %q", got)
			}
			if tbl.Len() != 4 {
				t.Errorf("Len() = %d, want 4", tbl.Len())
			}
		})
	}
}

func TestTableCloneIsIndependent(t *testing.T) {
	tbl := NewTable(map[string]string{"controller": "app.controllers"})
	snap := tbl.Clone()
	tbl.Merge(map[string]string{"controller": "other", "middleware": "mw"}, true)

	if got, _ := snap.Get("controller"); got != "app.controllers" {
		t.Errorf("snapshot saw merge: controller = %q", got)
	}
	if _, ok := snap.Get("middleware"); ok {
		t.Errorf("snapshot saw new key")
	}
}

func TestOrderedTableKeepsOrder(t *testing.T) {
	tbl := NewOrderedTable([]Entry{
		{Key: "trace", Value: "mw.Log"},
		{Key: "jwt", Value: "mw.Auth"},
		{Key: "audit", Value: "mw.Audit"},
		{Key: "jwt", Value: "mw.Strict"},
	})
	if diff := cmp.Diff([]string{"trace", "jwt", "audit"}, tbl.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if got, _ := tbl.Get("jwt"); got != "mw.Strict" {
		t.Errorf("Get(jwt) = %q, want the last value", got)
	}

	tbl.Push([]Entry{{Key: "zeta", Value: "z"}, {Key: "alpha", Value: "a"}}, false)
	if diff := cmp.Diff([]string{"zeta", "alpha", "trace", "jwt", "audit"}, tbl.Keys()); diff != "" {
		t.Errorf("Push() mismatch (-want +got):\n%s", diff)
	}
}
