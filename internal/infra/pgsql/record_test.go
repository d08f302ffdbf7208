package pgsql

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gorm.io/gorm/logger"

	"gnest/internal/infra/gnest"
)

type account struct {
	ID       uint   `gorm:"primaryKey"`
	UserName string `json:"userName"`
	Email    string
	Password string `json:"-"`
	Note     string `gorm:"-"`
}

var (
	_ gnest.Record     = (*Record)(nil)
	_ gnest.Collection = Collection(nil)
	_ gnest.Record     = (*PageResult[account])(nil)
)

func TestRecordToMap(t *testing.T) {
	r, err := NewRecord(&account{ID: 1, UserName: "ann", Email: "a@x.io", Password: "secret", Note: "n"})
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	want := map[string]any{"id": uint(1), "userName": "ann", "email": "a@x.io"}
	if diff := cmp.Diff(want, r.ToMap()); diff != "" {
		t.Errorf("ToMap() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectionToSlice(t *testing.T) {
	c, err := NewCollection([]account{{ID: 1, UserName: "a"}, {ID: 2, UserName: "b"}})
	if err != nil {
		t.Fatalf("NewCollection() error = %v", err)
	}
	want := []any{
		map[string]any{"id": uint(1), "userName": "a", "email": ""},
		map[string]any{"id": uint(2), "userName": "b", "email": ""},
	}
	if diff := cmp.Diff(want, gnest.Normalize(c)); diff != "" {
		t.Errorf("Normalize(collection) mismatch (-want +got):\n%s", diff)
	}
}

func TestPageResult(t *testing.T) {
	p := NewPageResult([]account{{ID: 3, UserName: "c"}}, 11, 0, 5)
	want := map[string]any{
		"list":       []any{map[string]any{"id": uint(3), "userName": "c", "email": ""}},
		"total":      int64(11),
		"page":       1,
		"page_size":  5,
		"page_count": 3,
	}
	if diff := cmp.Diff(want, p.ToMap()); diff != "" {
		t.Errorf("ToMap() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRecordRejectsNonStruct(t *testing.T) {
	if _, err := NewRecord(42); err == nil {
		t.Errorf("NewRecord(42) succeeded")
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]logger.LogLevel{
		"silent": logger.Silent,
		"ERROR":  logger.Error,
		"warn":   logger.Warn,
		"info":   logger.Info,
		"":       logger.Warn,
	} {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", in, got, want)
		}
	}
}
