package query

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Expr is a filter predicate over named fields. The same expression is
// evaluated in memory by SliceCollection and rendered to SQL by SQLCollection.
type Expr interface {
	toSQL(column func(string) (string, error)) (sq.Sqlizer, error)
	eval(value func(string) (any, error)) (bool, error)
}

type op string

const (
	opEq  op = "="
	opNe  op = "<>"
	opGt  op = ">"
	opGte op = ">="
	opLt  op = "<"
	opLte op = "<="
)

type compareExpr struct {
	field string
	op    op
	value any
}

// Eq matches items whose field equals value.
func Eq(field string, value any) Expr { return compareExpr{field, opEq, value} }

// Ne matches items whose field differs from value.
func Ne(field string, value any) Expr { return compareExpr{field, opNe, value} }

// Gt matches items whose field is greater than value.
func Gt(field string, value any) Expr { return compareExpr{field, opGt, value} }

// Gte matches items whose field is greater than or equal to value.
func Gte(field string, value any) Expr { return compareExpr{field, opGte, value} }

// Lt matches items whose field is less than value.
func Lt(field string, value any) Expr { return compareExpr{field, opLt, value} }

// Lte matches items whose field is less than or equal to value.
func Lte(field string, value any) Expr { return compareExpr{field, opLte, value} }

func (e compareExpr) toSQL(column func(string) (string, error)) (sq.Sqlizer, error) {
	col, err := column(e.field)
	if err != nil {
		return nil, err
	}
	switch e.op {
	case opEq:
		return sq.Eq{col: e.value}, nil
	case opNe:
		return sq.NotEq{col: e.value}, nil
	case opGt:
		return sq.Gt{col: e.value}, nil
	case opGte:
		return sq.GtOrEq{col: e.value}, nil
	case opLt:
		return sq.Lt{col: e.value}, nil
	default:
		return sq.LtOrEq{col: e.value}, nil
	}
}

func (e compareExpr) eval(value func(string) (any, error)) (bool, error) {
	v, err := value(e.field)
	if err != nil {
		return false, err
	}
	c, ok := compareValues(v, e.value)
	if !ok {
		// incomparable values are never equal and never ordered
		return e.op == opNe, nil
	}
	switch e.op {
	case opEq:
		return c == 0, nil
	case opNe:
		return c != 0, nil
	case opGt:
		return c > 0, nil
	case opGte:
		return c >= 0, nil
	case opLt:
		return c < 0, nil
	default:
		return c <= 0, nil
	}
}

type inExpr struct {
	field  string
	values []any
}

// In matches items whose field equals one of values.
func In(field string, values ...any) Expr { return inExpr{field, values} }

func (e inExpr) toSQL(column func(string) (string, error)) (sq.Sqlizer, error) {
	col, err := column(e.field)
	if err != nil {
		return nil, err
	}
	if len(e.values) == 0 {
		return sq.Expr("1=0"), nil
	}
	return sq.Eq{col: e.values}, nil
}

func (e inExpr) eval(value func(string) (any, error)) (bool, error) {
	v, err := value(e.field)
	if err != nil {
		return false, err
	}
	for _, candidate := range e.values {
		if c, ok := compareValues(v, candidate); ok && c == 0 {
			return true, nil
		}
	}
	return false, nil
}

type containsExpr struct {
	field string
	text  string
}

// Contains matches items whose text field contains text, ignoring case.
func Contains(field, text string) Expr { return containsExpr{field, text} }

// likeEscaper escapes LIKE wildcards with '!', which every supported dialect
// accepts as an ESCAPE character without string-literal quirks.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (e containsExpr) toSQL(column func(string) (string, error)) (sq.Sqlizer, error) {
	col, err := column(e.field)
	if err != nil {
		return nil, err
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(e.text)) + "%"
	return sq.Expr("LOWER("+col+") LIKE ? ESCAPE '!'", pattern), nil
}

func (e containsExpr) eval(value func(string) (any, error)) (bool, error) {
	v, err := value(e.field)
	if err != nil {
		return false, err
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(e.text)), nil
}

type andExpr []Expr

// And matches items that satisfy every expression. An empty And matches everything.
func And(exprs ...Expr) Expr { return andExpr(exprs) }

func (e andExpr) toSQL(column func(string) (string, error)) (sq.Sqlizer, error) {
	parts := make(sq.And, 0, len(e))
	for _, x := range e {
		s, err := x.toSQL(column)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return parts, nil
}

func (e andExpr) eval(value func(string) (any, error)) (bool, error) {
	for _, x := range e {
		ok, err := x.eval(value)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

type orExpr []Expr

// Or matches items that satisfy at least one expression. An empty Or matches nothing.
func Or(exprs ...Expr) Expr { return orExpr(exprs) }

func (e orExpr) toSQL(column func(string) (string, error)) (sq.Sqlizer, error) {
	parts := make(sq.Or, 0, len(e))
	for _, x := range e {
		s, err := x.toSQL(column)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return parts, nil
}

func (e orExpr) eval(value func(string) (any, error)) (bool, error) {
	for _, x := range e {
		ok, err := x.eval(value)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

type notExpr struct{ inner Expr }

// Not negates an expression.
func Not(e Expr) Expr { return notExpr{e} }

func (e notExpr) toSQL(column func(string) (string, error)) (sq.Sqlizer, error) {
	inner, err := e.inner.toSQL(column)
	if err != nil {
		return nil, err
	}
	return notSqlizer{inner}, nil
}

func (e notExpr) eval(value func(string) (any, error)) (bool, error) {
	ok, err := e.inner.eval(value)
	return !ok, err
}

type notSqlizer struct{ inner sq.Sqlizer }

func (n notSqlizer) ToSql() (string, []any, error) {
	sql, args, err := n.inner.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}

// compareValues orders two loosely typed values. Numbers of any width compare
// numerically; strings, booleans and times compare within their own kind.
func compareValues(a, b any) (int, bool) {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}

	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
