package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"

	sq "github.com/Masterminds/squirrel"
)

// Queryer is the subset of *sql.DB, *sql.Conn and *sql.Tx used by SQLCollection.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Scanner reads one row. It is satisfied by *sql.Rows and *sql.Row.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc decodes one row whose columns are Schema.Columns, in order.
type ScanFunc[T any] func(row Scanner) (T, error)

// PlaceholderFor returns the bind variable style used by a database driver name.
func PlaceholderFor(driver string) sq.PlaceholderFormat {
	switch driver {
	case "postgres", "pgx":
		return sq.Dollar
	default:
		return sq.Question
	}
}

// SQLOption configures a SQLCollection.
type SQLOption func(*sqlConfig)

type sqlConfig struct {
	format sq.PlaceholderFormat
}

// WithPlaceholder sets the bind variable style, sq.Question by default.
func WithPlaceholder(format sq.PlaceholderFormat) SQLOption {
	return func(c *sqlConfig) { c.format = format }
}

// SQLCollection is a Collection rendered to SQL with squirrel. Filters and
// orderings added after Skip or Take wrap the sliced query in a subquery, so
// a post-slice stage sees exactly the rows of the slice.
type SQLCollection[T any] struct {
	db     Queryer
	schema *Schema[T]
	scan   ScanFunc[T]
	format sq.PlaceholderFormat

	sub    *sq.SelectBuilder
	depth  int
	where  []sq.Sqlizer
	orders []string
	offset int
	limit  int
	err    error
}

// FromTable returns a collection over schema.Table().
func FromTable[T any](db Queryer, schema *Schema[T], scan ScanFunc[T], opts ...SQLOption) *SQLCollection[T] {
	cfg := &sqlConfig{format: sq.Question}
	for _, opt := range opts {
		opt(cfg)
	}
	c := &SQLCollection[T]{
		db:     db,
		schema: schema,
		scan:   scan,
		format: cfg.format,
		limit:  -1,
	}
	switch {
	case db == nil:
		c.err = errors.New("sql collection: nil queryer")
	case schema == nil:
		c.err = errors.New("sql collection: nil schema")
	case scan == nil:
		c.err = errors.New("sql collection: nil scan func")
	}
	return c
}

func (c *SQLCollection[T]) clone() *SQLCollection[T] {
	next := *c
	next.where = slices.Clone(c.where)
	next.orders = slices.Clone(c.orders)
	return &next
}

func (c *SQLCollection[T]) fail(err error) *SQLCollection[T] {
	next := c.clone()
	next.err = err
	return next
}

func (c *SQLCollection[T]) sliced() bool {
	return c.offset > 0 || c.limit >= 0
}

// seal turns the current query into a subquery of a fresh level.
func (c *SQLCollection[T]) seal() *SQLCollection[T] {
	inner := c.build(c.schema.Columns(), true)
	next := c.clone()
	next.sub = &inner
	next.depth++
	next.where = nil
	next.orders = nil
	next.offset = 0
	next.limit = -1
	return next
}

func (c *SQLCollection[T]) build(columns []string, ordered bool) sq.SelectBuilder {
	b := sq.Select(columns...)
	if c.sub != nil {
		b = b.FromSelect(*c.sub, fmt.Sprintf("p%d", c.depth))
	} else {
		b = b.From(c.schema.Table())
	}
	if len(c.where) > 0 {
		b = b.Where(sq.And(c.where))
	}
	if ordered && len(c.orders) > 0 {
		b = b.OrderBy(c.orders...)
	}
	if c.limit >= 0 {
		b = b.Limit(uint64(c.limit))
	} else if c.offset > 0 {
		// SQLite and MySQL reject OFFSET without LIMIT.
		b = b.Limit(math.MaxInt64)
	}
	if c.offset > 0 {
		b = b.Offset(uint64(c.offset))
	}
	return b
}

// Schema returns the field registry.
func (c *SQLCollection[T]) Schema() *Schema[T] { return c.schema }

// Err returns the first recorded error.
func (c *SQLCollection[T]) Err() error { return c.err }

// Where adds a filter.
func (c *SQLCollection[T]) Where(e Expr) Collection[T] {
	if c.err != nil {
		return c
	}
	cond, err := e.toSQL(c.schema.column)
	if err != nil {
		return c.fail(err)
	}
	next := c
	if c.sliced() {
		next = c.seal()
	} else {
		next = c.clone()
	}
	next.where = append(next.where, cond)
	return next
}

// OrderBy sorts ascending by field.
func (c *SQLCollection[T]) OrderBy(field string) Collection[T] {
	return c.order(field, "ASC")
}

// OrderByDesc sorts descending by field.
func (c *SQLCollection[T]) OrderByDesc(field string) Collection[T] {
	return c.order(field, "DESC")
}

func (c *SQLCollection[T]) order(field, dir string) Collection[T] {
	if c.err != nil {
		return c
	}
	col, err := c.schema.column(field)
	if err != nil {
		return c.fail(err)
	}
	next := c
	if c.sliced() {
		next = c.seal()
	} else {
		next = c.clone()
	}
	next.orders = append([]string{col + " " + dir}, next.orders...)
	return next
}

// Skip drops the first n rows.
func (c *SQLCollection[T]) Skip(n int) Collection[T] {
	if c.err != nil || n <= 0 {
		return c
	}
	next := c
	if c.limit >= 0 {
		next = c.seal()
	} else {
		next = c.clone()
	}
	if next.offset > math.MaxInt-n {
		next.offset = math.MaxInt
	} else {
		next.offset += n
	}
	return next
}

// Take keeps at most n rows.
func (c *SQLCollection[T]) Take(n int) Collection[T] {
	if c.err != nil {
		return c
	}
	n = max(n, 0)
	next := c.clone()
	if next.limit < 0 || n < next.limit {
		next.limit = n
	}
	return next
}

// Count returns the number of distinct rows.
func (c *SQLCollection[T]) Count(ctx context.Context) (int, error) {
	if c.err != nil {
		return 0, c.err
	}

	var b sq.SelectBuilder
	if c.sliced() {
		b = sq.Select("COUNT(*)").FromSelect(c.build(c.schema.Columns(), true), "cnt")
	} else {
		b = c.build([]string{"COUNT(DISTINCT " + c.schema.ID().Column + ")"}, false)
	}

	query, args, err := b.PlaceholderFormat(c.format).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.schema.Table(), err)
	}
	return n, nil
}

// List materializes the rows.
func (c *SQLCollection[T]) List(ctx context.Context) ([]T, error) {
	if c.err != nil {
		return nil, c.err
	}

	query, args, err := c.build(c.schema.Columns(), true).PlaceholderFormat(c.format).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.schema.Table(), err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := c.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.schema.Table(), err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c.schema.Table(), err)
	}
	return items, nil
}

// FindByID returns the row whose identity equals id.
func (c *SQLCollection[T]) FindByID(ctx context.Context, id any) (T, bool, error) {
	var zero T
	if c.err != nil {
		return zero, false, c.err
	}

	next := c.clone()
	next.offset = 0
	next.limit = 1
	next.orders = nil
	next.where = append(next.where, sq.Eq{c.schema.ID().Column: id})

	query, args, err := next.build(c.schema.Columns(), false).PlaceholderFormat(c.format).ToSql()
	if err != nil {
		return zero, false, fmt.Errorf("build find query: %w", err)
	}

	item, err := c.scan(c.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("find %s %v: %w", c.schema.Table(), id, err)
	}
	return item, true, nil
}
