package relational_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ncobase/pager/backend/relational"
	"github.com/ncobase/pager/paging"
	"github.com/ncobase/pager/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

type book struct {
	ID    int64
	Title string
	Genre string
}

var bookSchema = query.MustSchema("books", "id",
	query.Int("id", "id", func(b book) int64 { return b.ID }),
	query.String("title", "title", func(b book) string { return b.Title }),
	query.String("genre", "genre", func(b book) string { return b.Genre }),
)

func scanBook(row query.Scanner) (book, error) {
	var b book
	err := row.Scan(&b.ID, &b.Title, &b.Genre)
	return b, err
}

func books() []book {
	genres := []string{"poetry", "essay", "novel"}
	var out []book
	// stored in reverse so the default identity ordering is observable
	for id := int64(12); id >= 1; id-- {
		out = append(out, book{ID: id, Title: fmt.Sprintf("Book %02d", id), Genre: genres[id%3]})
	}
	return out
}

func openBooks(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE books (id INTEGER PRIMARY KEY, title TEXT NOT NULL, genre TEXT NOT NULL)`)
	require.NoError(t, err)
	for _, b := range books() {
		_, err = db.Exec(`INSERT INTO books (id, title, genre) VALUES (?, ?, ?)`, b.ID, b.Title, b.Genre)
		require.NoError(t, err)
	}
	return db
}

func sources(t *testing.T) map[string]query.Collection[book] {
	return map[string]query.Collection[book]{
		"memory": query.FromSlice(bookSchema, books()),
		"sqlite": query.FromTable(openBooks(t), bookSchema, scanBook),
	}
}

func ids(items []book) []int64 {
	out := make([]int64, len(items))
	for i, b := range items {
		out[i] = b.ID
	}
	return out
}

var demoStages = paging.Stages[book]{
	Before: func(c query.Collection[book], values url.Values) query.Collection[book] {
		if genre := values.Get("genre"); genre != "" {
			return c.Where(query.Eq("genre", genre))
		}
		return c
	},
	Middle: func(c query.Collection[book], values url.Values) query.Collection[book] {
		if values.Get("order") == "desc" {
			return c.OrderByDesc("id")
		}
		return c
	},
	SearchProps: func(c query.Collection[book], search string) query.Collection[book] {
		return c.Where(query.Contains("title", search))
	},
}

func TestScenarios(t *testing.T) {
	ctx := context.Background()
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			backend := relational.New(src, paging.Stages[book]{})

			p, err := paging.Paginate(ctx, "page=1&itemsPerPage=5", backend)
			require.NoError(t, err)
			assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(p.Items))
			assert.Equal(t, 12, p.TotalItems)
			assert.Equal(t, 3, p.TotalPages)

			p, err = paging.Paginate(ctx, "page=3&itemsPerPage=5", backend)
			require.NoError(t, err)
			assert.Equal(t, []int64{11, 12}, ids(p.Items))

			p, err = paging.Paginate(ctx, "page=4&itemsPerPage=5", backend)
			require.NoError(t, err)
			assert.Empty(t, p.Items)
			assert.NotNil(t, p.Items)

			p, err = paging.Paginate(ctx, "page=4611686018427387905&itemsPerPage=2", backend)
			require.NoError(t, err)
			assert.Empty(t, p.Items)
			assert.Equal(t, 12, p.TotalItems)
			assert.Equal(t, 6, p.TotalPages)

			p, err = paging.Paginate(ctx, "itemsPerPage=0", backend)
			require.NoError(t, err)
			assert.Len(t, p.Items, 12)
			assert.Equal(t, 12, p.ItemsPerPage)
			assert.Equal(t, 1, p.TotalPages)
		})
	}
}

func TestPinnedItem(t *testing.T) {
	ctx := context.Background()
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			backend := relational.New(src, paging.Stages[book]{})

			p, err := paging.Paginate(ctx, "first=7&itemsPerPage=5", backend)
			require.NoError(t, err)
			assert.Equal(t, []int64{7, 1, 2, 3, 4}, ids(p.Items))
			assert.Equal(t, 5, p.ItemsPerPage)
			assert.Equal(t, 12, p.TotalItems)

			p, err = paging.Paginate(ctx, "first=7&itemsPerPage=5&page=2", backend)
			require.NoError(t, err)
			assert.Equal(t, []int64{7, 5, 6, 8, 9}, ids(p.Items))

			plain, err := paging.Paginate(ctx, "itemsPerPage=5&page=2", backend)
			require.NoError(t, err)
			absent, err := paging.Paginate(ctx, "itemsPerPage=5&page=2&first=40", backend)
			require.NoError(t, err)
			assert.Equal(t, plain, absent)
		})
	}
}

func TestStagesOrder(t *testing.T) {
	ctx := context.Background()
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			backend := relational.New(src, demoStages)

			// novel: 2, 5, 8, 11
			p, err := paging.Paginate(ctx, "genre=novel&order=desc&itemsPerPage=3", backend)
			require.NoError(t, err)
			assert.Equal(t, []int64{11, 8, 5}, ids(p.Items))
			assert.Equal(t, 4, p.TotalItems)
			assert.Equal(t, 2, p.TotalPages)

			p, err = paging.Paginate(ctx, "genre=novel&search=book%201", backend)
			require.NoError(t, err)
			assert.Equal(t, []int64{11}, ids(p.Items))

			// 3 is poetry, pinned ahead of the novels anyway
			p, err = paging.Paginate(ctx, "genre=novel&first=3", backend)
			require.NoError(t, err)
			assert.Equal(t, []int64{3, 2, 5, 8, 11}, ids(p.Items))
			assert.Equal(t, 5, p.TotalItems)
			assert.Equal(t, 5, p.ItemsPerPage)
			assert.Equal(t, 1, p.TotalPages)

			p, err = paging.Paginate(ctx, "genre=novel&first=3&itemsPerPage=3&page=2", backend)
			require.NoError(t, err)
			assert.Equal(t, []int64{3, 8, 11}, ids(p.Items))
			assert.Equal(t, 5, p.TotalItems)
			assert.Equal(t, 2, p.TotalPages)
		})
	}
}

func TestAfterRunsOnTheSlice(t *testing.T) {
	ctx := context.Background()
	stages := paging.Stages[book]{
		After: func(c query.Collection[book], _ url.Values) query.Collection[book] {
			return c.Where(query.Ne("genre", "poetry"))
		},
	}
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			backend := relational.New(src, stages)

			// page 1 is 1..5, poetry (3) is dropped after slicing
			p, err := paging.Paginate(ctx, "itemsPerPage=5", backend)
			require.NoError(t, err)
			assert.Equal(t, []int64{1, 2, 4, 5}, ids(p.Items))
			assert.Equal(t, 12, p.TotalItems)
		})
	}
}

func TestUnknownFieldFails(t *testing.T) {
	stages := paging.Stages[book]{
		Middle: func(c query.Collection[book], _ url.Values) query.Collection[book] {
			return c.OrderBy("rating")
		},
	}
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			_, err := paging.Paginate(context.Background(), "", relational.New(src, stages))
			require.Error(t, err)
			assert.ErrorIs(t, err, query.ErrFieldNotFound)

			var pe *paging.Error
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, http.StatusInternalServerError, pe.Status)
		})
	}
}

func TestDatabaseFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(sql.ErrConnDone)

	backend := relational.New(query.FromTable(db, bookSchema, scanBook), paging.Stages[book]{}, relational.WithName[book]("books"))
	p, err := paging.Paginate(context.Background(), "", backend)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, "failed to load page from books", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}
