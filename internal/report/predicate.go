package report

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/support-reports/internal/domain"
)

// Predicate is one atomic filter condition. Predicates combine conjunctively;
// values never appear in query text, only as bind parameters.
type Predicate struct {
	Column string
	Op     string
	Value  any
}

// Predicates converts the filter into its ordered predicate list.
// A predicate is present only when its filter value is set.
func (f Filter) Predicates() []Predicate {
	preds := make([]Predicate, 0, 3)

	if f.Start != nil {
		preds = append(preds, Predicate{Column: "query_date", Op: ">=", Value: *f.Start})
	}
	if f.End != nil {
		preds = append(preds, Predicate{Column: "query_date", Op: "<=", Value: *f.End})
	}
	if f.Product != "" {
		preds = append(preds, Predicate{Column: "product", Op: "=", Value: f.Product})
	}

	return preds
}

// ControllableOnly appends the fixed category constraint used by the theme
// views. It composes with zero or more filter predicates.
func ControllableOnly(preds []Predicate) []Predicate {
	return append(preds, Predicate{
		Column: "category",
		Op:     "=",
		Value:  domain.CategoryControllable,
	})
}

// WhereClause renders predicates into a WHERE clause with PostgreSQL
// positional placeholders and the matching argument list. An empty predicate
// list yields an empty clause.
func WhereClause(preds []Predicate) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}

	conds := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for i, p := range preds {
		conds = append(conds, fmt.Sprintf("%s %s $%d", p.Column, p.Op, i+1))
		args = append(args, p.Value)
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}
