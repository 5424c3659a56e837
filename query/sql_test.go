package query

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPlaceholderFor(t *testing.T) {
	q, err := PlaceholderFor("postgres").ReplacePlaceholders("a = ? AND b = ?")
	if err != nil {
		t.Fatal(err)
	}
	if q != "a = $1 AND b = $2" {
		t.Errorf("unexpected postgres placeholders: %q", q)
	}
	q, _ = PlaceholderFor("sqlite3").ReplacePlaceholders("a = ?")
	if q != "a = ?" {
		t.Errorf("unexpected sqlite placeholders: %q", q)
	}
}

func TestSQLCollectionDollarPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	c := FromTable(db, widgetSchema, scanWidget, WithPlaceholder(PlaceholderFor("postgres")))

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT id\) FROM widgets WHERE .*color = \$1`).
		WithArgs("red").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := c.Where(Eq("color", "red")).Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4, got %d", n)
	}

	mock.ExpectQuery(`SELECT id, name, color, price, created_at FROM widgets ORDER BY id ASC LIMIT 2 OFFSET 4`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color", "price", "created_at"}).
			AddRow(5, "Widget 05", "green", 7.5, "2024-01-01T05:00:00Z").
			AddRow(6, "Widget 06", "red", 9.0, "2024-01-01T06:00:00Z"))

	items, err := c.OrderBy("id").Skip(4).Take(2).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := ids(items); !equalIDs(got, []int64{5, 6}) {
		t.Errorf("expected [5 6], got %v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLCollectionQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT .* FROM widgets`).WillReturnError(boom)

	_, err = FromTable(db, widgetSchema, scanWidget).List(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped driver error, got %v", err)
	}
}

func TestFromTableRejectsMissingParts(t *testing.T) {
	c := FromTable[widget](nil, widgetSchema, scanWidget)
	if c.Err() == nil {
		t.Error("expected error for nil queryer")
	}
	if _, err := c.Count(context.Background()); err == nil {
		t.Error("expected Count to fail")
	}
}
