package query

import (
	"strings"

	"github.com/uptrace/bun"
)

// Apply translates the plan onto a bun select query. Column names in the plan
// come from the closed maps, so interpolating them into expressions is safe.
func (p Plan) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	for _, pr := range p.Predicates {
		switch pr.Op {
		case OpContains:
			fragment, _ := pr.Value.(string)
			q = q.Where("LOWER("+pr.Column+") LIKE ?", "%"+strings.ToLower(fragment)+"%")
		case OpEq:
			q = q.Where(pr.Column+" = ?", pr.Value)
		case OpGTE:
			q = q.Where(pr.Column+" >= ?", pr.Value)
		case OpLTE:
			q = q.Where(pr.Column+" <= ?", pr.Value)
		case OpBetween:
			q = q.Where(pr.Column+" BETWEEN ? AND ?", pr.Value, pr.Upper)
		}
	}

	if p.SortColumn != "" {
		dir := " DESC"
		if p.Asc {
			dir = " ASC"
		}
		q = q.OrderExpr(p.SortColumn + dir)
	}

	if p.Limit > 0 {
		q = q.Offset(p.Offset).Limit(p.Limit)
	}
	return q
}
