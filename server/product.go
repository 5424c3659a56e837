package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/ncobase/pager/paging"
	"github.com/ncobase/pager/query"
)

// Product is the demo catalog item served by every backend.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

// ProductView is the shape returned to clients.
type ProductView struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Price    string `json:"price"`
}

// ToView is the mutation applied to every page of products.
func ToView(p Product) ProductView {
	return ProductView{
		ID:       p.ID,
		Title:    p.Name,
		Category: p.Category,
		Price:    fmt.Sprintf("%.2f", p.Price),
	}
}

var productSchema = query.MustSchema("products", "id",
	query.Int("id", "id", func(p Product) int64 { return p.ID }),
	query.String("name", "name", func(p Product) string { return p.Name }),
	query.String("description", "description", func(p Product) string { return p.Description }),
	query.String("category", "category", func(p Product) string { return p.Category }),
	query.Float("price", "price", func(p Product) float64 { return p.Price }),
)

// searchFields are matched by the search parameter on every backend.
var searchFields = []string{"name", "description"}

func scanProduct(row query.Scanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price)
	return p, err
}

// productStages filter by category, order by the sort and order parameters
// and match the search text against name and description.
var productStages = paging.Stages[Product]{
	Before: func(c query.Collection[Product], values url.Values) query.Collection[Product] {
		if category := paging.GetString(values, "category", ""); category != "" {
			return c.Where(query.Eq("category", category))
		}
		return c
	},
	Middle: func(c query.Collection[Product], values url.Values) query.Collection[Product] {
		field := paging.GetString(values, "sort", "")
		if field == "" {
			return c
		}
		if strings.EqualFold(paging.GetString(values, "order", "asc"), "desc") {
			return c.OrderByDesc(field)
		}
		return c.OrderBy(field)
	},
	SearchProps: func(c query.Collection[Product], search string) query.Collection[Product] {
		exprs := make([]query.Expr, len(searchFields))
		for i, f := range searchFields {
			exprs[i] = query.Contains(f, search)
		}
		return c.Where(query.Or(exprs...))
	},
}

const createProducts = `CREATE TABLE IF NOT EXISTS products (
	id BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	description TEXT NOT NULL,
	category VARCHAR(64) NOT NULL,
	price DOUBLE PRECISION NOT NULL
)`

// migrate creates the products table.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createProducts); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

// insertProducts writes products in one statement.
func insertProducts(ctx context.Context, db *sql.DB, format sq.PlaceholderFormat, products []Product) error {
	if len(products) == 0 {
		return nil
	}
	ins := sq.Insert(productSchema.Table()).
		Columns(productSchema.Columns()...).
		PlaceholderFormat(format)
	for _, p := range products {
		ins = ins.Values(p.ID, p.Name, p.Description, p.Category, p.Price)
	}
	stmt, args, err := ins.ToSql()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert products: %w", err)
	}
	return nil
}

var catalog = []struct {
	category string
	names    []string
}{
	{"books", []string{"Go in Practice", "Distributed Systems", "The Pragmatic Programmer", "Designing Data Apps", "Site Reliability", "Clean Architecture", "Concurrency in Go", "Database Internals"}},
	{"games", []string{"Chess Set", "Go Board", "Puzzle Cube", "Card Deck", "Dice Tower", "Jigsaw 1000", "Mahjong Tiles", "Backgammon"}},
	{"tools", []string{"Hammer", "Screwdriver Set", "Tape Measure", "Utility Knife", "Spirit Level", "Socket Wrench", "Hand Saw", "Cordless Drill"}},
}

// DemoProducts returns the deterministic demo catalog, ids 1 to 24.
func DemoProducts() []Product {
	var out []Product
	var id int64
	for _, group := range catalog {
		for i, name := range group.names {
			id++
			out = append(out, Product{
				ID:          id,
				Name:        name,
				Description: fmt.Sprintf("%s from the %s shelf", name, group.category),
				Category:    group.category,
				Price:       float64(5*(i+1)) + 0.99,
			})
		}
	}
	return out
}
