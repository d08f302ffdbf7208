package pgsql

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gorm.io/gorm/schema"
)

var (
	schemaCache sync.Map
	namer       = schema.NamingStrategy{}
)

// Record wraps a gorm model so handlers can return it as a plain mapping.
// Keys follow the json tag, falling back to the column name; fields tagged
// json:"-" are left out.
type Record struct {
	model  reflect.Value
	schema *schema.Schema
}

func NewRecord(model any) (*Record, error) {
	s, err := schema.Parse(model, &schemaCache, namer)
	if err != nil {
		return nil, errors.Wrapf(err, "parse model %T", model)
	}
	v := reflect.Indirect(reflect.ValueOf(model))
	if v.Kind() != reflect.Struct {
		return nil, errors.Errorf("model %T is not a struct", model)
	}
	return &Record{model: v, schema: s}, nil
}

// Model returns the wrapped value.
func (r *Record) Model() any { return r.model.Interface() }

func (r *Record) ToMap() map[string]any {
	out := make(map[string]any, len(r.schema.Fields))
	ctx := context.Background()
	for _, f := range r.schema.Fields {
		key, ok := fieldKey(f)
		if !ok {
			continue
		}
		v, _ := f.ValueOf(ctx, r.model)
		out[key] = v
	}
	return out
}

func fieldKey(f *schema.Field) (string, bool) {
	if f.DBName == "" || !f.Readable {
		return "", false
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return "", false
	case "":
		return f.DBName, true
	}
	return name, true
}

// Collection is an ordered set of records.
type Collection []*Record

func NewCollection[T any](models []T) (Collection, error) {
	c := make(Collection, 0, len(models))
	for i := range models {
		r, err := NewRecord(&models[i])
		if err != nil {
			return nil, err
		}
		c = append(c, r)
	}
	return c, nil
}

func (c Collection) ToSlice() []any {
	out := make([]any, len(c))
	for i, r := range c {
		out[i] = r.ToMap()
	}
	return out
}

// ToMap flattens a single model, or returns nil when it cannot be parsed.
func ToMap(model any) map[string]any {
	r, err := NewRecord(model)
	if err != nil {
		return nil
	}
	return r.ToMap()
}
