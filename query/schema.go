package query

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrFieldNotFound is returned when a field name is not registered on a schema.
var ErrFieldNotFound = errors.New("field not found")

// Field describes one attribute of T that can be filtered and ordered by name.
type Field[T any] struct {
	Name    string          // name used by callers, e.g. "createdAt"
	Column  string          // backing column for SQL collections
	Value   func(T) any     // accessor used by in-memory filtering
	Compare func(a, b T) int // ascending comparator
}

// Int registers an integer field.
func Int[T any](name, column string, get func(T) int64) Field[T] {
	return Field[T]{
		Name:    name,
		Column:  column,
		Value:   func(item T) any { return get(item) },
		Compare: func(a, b T) int { return cmp.Compare(get(a), get(b)) },
	}
}

// Float registers a floating point field.
func Float[T any](name, column string, get func(T) float64) Field[T] {
	return Field[T]{
		Name:    name,
		Column:  column,
		Value:   func(item T) any { return get(item) },
		Compare: func(a, b T) int { return cmp.Compare(get(a), get(b)) },
	}
}

// String registers a text field.
func String[T any](name, column string, get func(T) string) Field[T] {
	return Field[T]{
		Name:    name,
		Column:  column,
		Value:   func(item T) any { return get(item) },
		Compare: func(a, b T) int { return strings.Compare(get(a), get(b)) },
	}
}

// Bool registers a boolean field. false sorts before true.
func Bool[T any](name, column string, get func(T) bool) Field[T] {
	return Field[T]{
		Name:   name,
		Column: column,
		Value:  func(item T) any { return get(item) },
		Compare: func(a, b T) int {
			x, y := get(a), get(b)
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		},
	}
}

// Time registers a timestamp field.
func Time[T any](name, column string, get func(T) time.Time) Field[T] {
	return Field[T]{
		Name:    name,
		Column:  column,
		Value:   func(item T) any { return get(item) },
		Compare: func(a, b T) int { return get(a).Compare(get(b)) },
	}
}

// Schema is the field registry of an item type. It replaces runtime
// reflection: every name a caller may order or filter by is declared once
// and validated when the schema is built.
type Schema[T any] struct {
	table  string
	id     string
	fields map[string]Field[T]
	order  []string
}

// NewSchema builds a schema for table with id naming the identity field.
func NewSchema[T any](table, id string, fields ...Field[T]) (*Schema[T], error) {
	if table == "" {
		return nil, errors.New("schema table is empty")
	}

	s := &Schema[T]{
		table:  table,
		fields: make(map[string]Field[T], len(fields)),
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema %s: field name is empty", table)
		}
		if f.Value == nil || f.Compare == nil {
			return nil, fmt.Errorf("schema %s: field %s has no accessor", table, f.Name)
		}
		if f.Column == "" {
			f.Column = f.Name
		}
		key := strings.ToLower(f.Name)
		if _, exists := s.fields[key]; exists {
			return nil, fmt.Errorf("schema %s: field %s registered twice", table, f.Name)
		}
		s.fields[key] = f
		s.order = append(s.order, key)
	}

	idField, ok := s.fields[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("schema %s: identity %q: %w", table, id, ErrFieldNotFound)
	}
	s.id = idField.Name

	return s, nil
}

// MustSchema is like NewSchema but panics on error. Intended for package-level vars.
func MustSchema[T any](table, id string, fields ...Field[T]) *Schema[T] {
	s, err := NewSchema(table, id, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Table returns the backing table name.
func (s *Schema[T]) Table() string { return s.table }

// IDName returns the name of the identity field.
func (s *Schema[T]) IDName() string { return s.id }

// ID returns the identity field.
func (s *Schema[T]) ID() Field[T] {
	f, _ := s.Field(s.id)
	return f
}

// Field looks a field up by name, ignoring case.
func (s *Schema[T]) Field(name string) (Field[T], error) {
	f, ok := s.fields[strings.ToLower(name)]
	if !ok {
		return Field[T]{}, fmt.Errorf("%s.%s: %w", s.table, name, ErrFieldNotFound)
	}
	return f, nil
}

// Has reports whether name is a registered field.
func (s *Schema[T]) Has(name string) bool {
	_, ok := s.fields[strings.ToLower(name)]
	return ok
}

// Columns returns the columns in registration order. SQL collections select
// them in this order, so scan functions must read them in the same order.
func (s *Schema[T]) Columns() []string {
	cols := make([]string, len(s.order))
	for i, key := range s.order {
		cols[i] = s.fields[key].Column
	}
	return cols
}

// value resolves a field value of item by name.
func (s *Schema[T]) value(item T, name string) (any, error) {
	f, err := s.Field(name)
	if err != nil {
		return nil, err
	}
	return f.Value(item), nil
}

// column resolves the column of a field by name.
func (s *Schema[T]) column(name string) (string, error) {
	f, err := s.Field(name)
	if err != nil {
		return "", err
	}
	return f.Column, nil
}
