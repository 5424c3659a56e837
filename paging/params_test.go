package paging

import (
	"math"
	"net/url"
	"reflect"
	"testing"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Params
	}{
		{"empty", "", Params{Page: 1, ItemsPerPage: 5}},
		{"all keys", "page=3&itemsPerPage=10&search=blue&first=7&useDB=true",
			Params{Page: 3, ItemsPerPage: 10, Search: "blue", First: 7, UseDB: true}},
		{"leading question mark", "?page=2", Params{Page: 2, ItemsPerPage: 5}},
		{"malformed page", "page=abc", Params{Page: 1, ItemsPerPage: 5}},
		{"zero page", "page=0", Params{Page: 1, ItemsPerPage: 5}},
		{"negative page", "page=-4", Params{Page: 1, ItemsPerPage: 5}},
		{"page with spaces", "page=%203%20", Params{Page: 3, ItemsPerPage: 5}},
		{"leading zeros are decimal", "page=010", Params{Page: 10, ItemsPerPage: 5}},
		{"unsliced", "itemsPerPage=0", Params{Page: 1, ItemsPerPage: 0}},
		{"negative size", "itemsPerPage=-1", Params{Page: 1, ItemsPerPage: -1}},
		{"malformed size", "itemsPerPage=ten", Params{Page: 1, ItemsPerPage: 5}},
		{"malformed bool", "useDB=yes", Params{Page: 1, ItemsPerPage: 5}},
		{"numeric bool", "useDB=1", Params{Page: 1, ItemsPerPage: 5, UseDB: true}},
		{"malformed first", "first=seven", Params{Page: 1, ItemsPerPage: 5}},
		{"keys ignore case", "PAGE=2&itemsperpage=3", Params{Page: 2, ItemsPerPage: 3}},
		{"broken escape keeps other pairs", "page=2&search=%zz", Params{Page: 2, ItemsPerPage: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseParams(tt.raw, 0)
			got.Values = nil
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseParams(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseParamsDefaultSize(t *testing.T) {
	if got := ParseParams("", 10).ItemsPerPage; got != 10 {
		t.Errorf("expected caller default 10, got %d", got)
	}
	if got := ParseParams("", -1); got.Slicing() {
		t.Error("expected negative default to disable slicing")
	}
}

func TestParamsOffset(t *testing.T) {
	p := ParseParams("page=3&itemsPerPage=5", 0)
	if p.Offset() != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset())
	}
	p = ParseParams("page=3&itemsPerPage=0", 0)
	if p.Offset() != 0 {
		t.Errorf("expected offset 0 when unsliced, got %d", p.Offset())
	}
}

func TestOffsetSaturates(t *testing.T) {
	tests := []struct {
		page, size, want int
	}{
		{1, 5, 0},
		{0, 5, 0},
		{4, 5, 15},
		{3, 0, 0},
		{math.MaxInt/2 + 2, 2, math.MaxInt},
		{2, math.MaxInt, math.MaxInt},
		{math.MaxInt, math.MaxInt, math.MaxInt},
	}
	for _, tt := range tests {
		if got := Offset(tt.page, tt.size); got != tt.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.page, tt.size, got, tt.want)
		}
	}

	p := ParseParams("page=4611686018427387905&itemsPerPage=2", 0)
	if p.Offset() != math.MaxInt {
		t.Errorf("expected saturated offset, got %d", p.Offset())
	}
}

func TestParamsValuesKeepUnknownKeys(t *testing.T) {
	p := ParseParams("page=2&category=books", 0)
	if got := GetString(p.Values, "category", ""); got != "books" {
		t.Errorf("expected category books, got %q", got)
	}
}

func TestParamsEncode(t *testing.T) {
	p := ParseParams("Page=1&itemsPerPage=5&category=books&search=go", 0)
	got, err := url.ParseQuery(p.WithPage(2).Encode())
	if err != nil {
		t.Fatalf("parse encoded: %v", err)
	}
	want := url.Values{
		"page":         {"2"},
		"itemsPerPage": {"5"},
		"search":       {"go"},
		"category":     {"books"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for k, v := range want {
		if got.Get(k) != v[0] {
			t.Errorf("%s: expected %q, got %q", k, v[0], got.Get(k))
		}
	}
}

func TestGetters(t *testing.T) {
	values := url.Values{"n": {"42"}, "big": {"9007199254740993"}, "b": {"TRUE"}, "s": {""}}
	if GetInt(values, "n", 0) != 42 {
		t.Error("GetInt failed")
	}
	if GetInt(values, "missing", 7) != 7 {
		t.Error("GetInt default failed")
	}
	if GetInt64(values, "big", 0) != 9007199254740993 {
		t.Error("GetInt64 failed")
	}
	if !GetBool(values, "b", false) {
		t.Error("GetBool failed")
	}
	if GetString(values, "s", "def") != "" {
		t.Error("GetString should return present empty value")
	}
}
