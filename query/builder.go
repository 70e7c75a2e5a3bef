// Package query builds read queries as explicit values, keeping predicate
// construction separate from execution so filter logic can be tested without
// a database.
package query

import (
	"fmt"
	"strings"
)

type condKind int

const (
	condEq condKind = iota
	condAnyEq
	condSearchAny
)

type condition struct {
	kind    condKind
	column  string
	columns []string
	value   any
	values  []any
}

type ordering struct {
	column    string
	ascending bool
}

// Builder assembles a filtered, ordered, range-paginated SELECT over a single
// table. Column and table names are trusted input: callers must pass literals
// or whitelist-mapped identifiers, never user input.
type Builder struct {
	table    string
	columns  []string
	conds    []condition
	order    *ordering
	from, to int
	hasRange bool
}

// New starts a query over table selecting the given columns.
func New(table string, columns ...string) *Builder {
	return &Builder{table: table, columns: columns}
}

// Eq adds an exact-equality predicate, AND-ed with the rest.
func (b *Builder) Eq(column string, value any) *Builder {
	b.conds = append(b.conds, condition{kind: condEq, column: column, value: value})
	return b
}

// AnyEq adds a single OR-group of equality predicates over one column.
// Calling it with no values adds nothing.
func (b *Builder) AnyEq(column string, values ...any) *Builder {
	if len(values) == 0 {
		return b
	}
	b.conds = append(b.conds, condition{kind: condAnyEq, column: column, values: values})
	return b
}

// SearchAny adds a single OR-group of case-insensitive partial matches of
// needle across the given columns. An empty needle adds nothing.
func (b *Builder) SearchAny(needle string, columns ...string) *Builder {
	if needle == "" || len(columns) == 0 {
		return b
	}
	b.conds = append(b.conds, condition{kind: condSearchAny, columns: columns, value: "%" + needle + "%"})
	return b
}

// Range requests the inclusive zero-based row range [from, to].
func (b *Builder) Range(from, to int) *Builder {
	b.from, b.to, b.hasRange = from, to, true
	return b
}

// OrderBy orders results by column, ascending or descending. Not calling it
// leaves the query without an ORDER BY clause.
func (b *Builder) OrderBy(column string, ascending bool) *Builder {
	b.order = &ordering{column: column, ascending: ascending}
	return b
}

// SelectSQL renders the full SELECT statement with positional args.
func (b *Builder) SelectSQL() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	where, args := b.whereClause()
	sb.WriteString(where)

	if b.order != nil {
		dir := "DESC"
		if b.order.ascending {
			dir = "ASC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", b.order.column, dir)
	}

	if b.hasRange {
		fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", b.to-b.from+1, b.from)
	}

	return sb.String(), args
}

// CountSQL renders the matching COUNT(*) statement, ignoring ordering and
// pagination, so callers can report an exact total match count.
func (b *Builder) CountSQL() (string, []any) {
	where, args := b.whereClause()
	return "SELECT COUNT(*) FROM " + b.table + where, args
}

func (b *Builder) whereClause() (string, []any) {
	if len(b.conds) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(b.conds))
	args := make([]any, 0, len(b.conds))

	for _, c := range b.conds {
		switch c.kind {
		case condEq:
			args = append(args, c.value)
			parts = append(parts, fmt.Sprintf("%s = $%d", c.column, len(args)))
		case condAnyEq:
			terms := make([]string, 0, len(c.values))
			for _, v := range c.values {
				args = append(args, v)
				terms = append(terms, fmt.Sprintf("%s = $%d", c.column, len(args)))
			}
			parts = append(parts, "("+strings.Join(terms, " OR ")+")")
		case condSearchAny:
			args = append(args, c.value)
			n := len(args)
			terms := make([]string, 0, len(c.columns))
			for _, col := range c.columns {
				terms = append(terms, fmt.Sprintf("%s ILIKE $%d", col, n))
			}
			parts = append(parts, "("+strings.Join(terms, " OR ")+")")
		}
	}

	return " WHERE " + strings.Join(parts, " AND "), args
}
