package report

import (
	"testing"
	"time"
)

func datePtr(t *testing.T, value string) *time.Time {
	t.Helper()

	d, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return &d
}

func TestWhereClause_Empty(t *testing.T) {
	where, args := WhereClause(Filter{}.Predicates())

	if where != "" {
		t.Errorf("clause: got %q, want empty", where)
	}
	if len(args) != 0 {
		t.Errorf("args: got %v, want none", args)
	}
}

func TestWhereClause_AllFilters(t *testing.T) {
	f := Filter{
		Start:   datePtr(t, "2024-01-01"),
		End:     datePtr(t, "2024-01-31"),
		Product: "Broadband",
	}

	where, args := WhereClause(f.Predicates())

	want := "WHERE query_date >= $1 AND query_date <= $2 AND product = $3"
	if where != want {
		t.Errorf("clause:\ngot:  %q\nwant: %q", where, want)
	}
	if len(args) != 3 {
		t.Fatalf("args: got %d, want 3", len(args))
	}
	if args[2] != "Broadband" {
		t.Errorf("product arg: got %v, want Broadband", args[2])
	}
}

func TestWhereClause_ProductOnly(t *testing.T) {
	f := Filter{Product: "Mobile"}

	where, args := WhereClause(f.Predicates())

	if where != "WHERE product = $1" {
		t.Errorf("clause: got %q, want %q", where, "WHERE product = $1")
	}
	if len(args) != 1 || args[0] != "Mobile" {
		t.Errorf("args: got %v, want [Mobile]", args)
	}
}

func TestControllableOnly_NoUserFilters(t *testing.T) {
	// The theme constraint must yield a valid clause even when no user
	// filter is active.
	where, args := WhereClause(ControllableOnly(Filter{}.Predicates()))

	if where != "WHERE category = $1" {
		t.Errorf("clause: got %q, want %q", where, "WHERE category = $1")
	}
	if len(args) != 1 || args[0] != "Controllable" {
		t.Errorf("args: got %v, want [Controllable]", args)
	}
}

func TestControllableOnly_AppendsAfterUserFilters(t *testing.T) {
	f := Filter{
		Start:   datePtr(t, "2024-01-01"),
		Product: "Broadband",
	}

	where, args := WhereClause(ControllableOnly(f.Predicates()))

	want := "WHERE query_date >= $1 AND product = $2 AND category = $3"
	if where != want {
		t.Errorf("clause:\ngot:  %q\nwant: %q", where, want)
	}
	if args[2] != "Controllable" {
		t.Errorf("category arg: got %v, want Controllable", args[2])
	}
}

func TestPredicates_ValuesAreBound(t *testing.T) {
	// Filter values must never leak into the clause text.
	f := Filter{Product: "x' OR '1'='1"}

	where, args := WhereClause(f.Predicates())

	if where != "WHERE product = $1" {
		t.Errorf("clause: got %q, filter value leaked into query text", where)
	}
	if args[0] != "x' OR '1'='1" {
		t.Errorf("args: got %v, want raw value as bound parameter", args)
	}
}
