// Package query builds parameterised Spanner SELECT statements.
package query

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	// Asc represents ascending order.
	Asc Direction = iota
	// Desc represents descending order.
	Desc
)

type ordering struct {
	column    string
	direction Direction
}

// Builder constructs SELECT statements with a fluent, immutable API:
// every method returns a new Builder, so a base query can be shared and
// specialised (for example into a page query and its Count).
type Builder struct {
	table   string
	index   string
	columns []string
	where   []Condition
	order   []ordering
	limit   int64
	offset  int64
}

// From starts a query on table.
func From(table string) *Builder {
	return &Builder{table: table}
}

// UseIndex forces a secondary index with a FORCE_INDEX table hint.
func (b *Builder) UseIndex(index string) *Builder {
	nb := b.clone()
	nb.index = index
	return nb
}

// Select appends columns to the projection.
func (b *Builder) Select(columns ...string) *Builder {
	nb := b.clone()
	nb.columns = append(nb.columns, columns...)
	return nb
}

// Where adds a condition. Conditions are combined with AND.
func (b *Builder) Where(condition Condition) *Builder {
	nb := b.clone()
	nb.where = append(nb.where, condition)
	return nb
}

// OrderBy appends a sort key; earlier keys take precedence.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	nb := b.clone()
	nb.order = append(nb.order, ordering{column: column, direction: direction})
	return nb
}

// Limit sets the maximum number of rows to return.
func (b *Builder) Limit(limit int64) *Builder {
	nb := b.clone()
	nb.limit = limit
	return nb
}

// Offset sets the number of rows to skip.
func (b *Builder) Offset(offset int64) *Builder {
	nb := b.clone()
	nb.offset = offset
	return nb
}

// Count turns the query into SELECT COUNT(*) over the same filters,
// dropping ordering and pagination.
func (b *Builder) Count() *Builder {
	nb := b.clone()
	nb.columns = []string{"COUNT(*)"}
	nb.order = nil
	nb.limit = 0
	nb.offset = 0
	return nb
}

// Build renders the statement.
func (b *Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	sql.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.columns, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(b.table)
	if b.index != "" {
		fmt.Fprintf(&sql, "@{FORCE_INDEX=%s}", b.index)
	}

	if len(b.where) > 0 {
		parts := make([]string, 0, len(b.where))
		next := 0
		for _, condition := range b.where {
			fragment, bound := condition.SQL(next)
			parts = append(parts, fragment)
			for k, v := range bound {
				params[k] = v
			}
			next += len(bound)
		}
		sql.WriteString(" WHERE ")
		sql.WriteString(strings.Join(parts, " AND "))
	}

	if len(b.order) > 0 {
		keys := make([]string, 0, len(b.order))
		for _, o := range b.order {
			if o.direction == Desc {
				keys = append(keys, o.column+" DESC")
			} else {
				keys = append(keys, o.column+" ASC")
			}
		}
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(keys, ", "))
	}

	if b.limit > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limit
	}

	if b.offset > 0 {
		sql.WriteString(" OFFSET @offset")
		params["offset"] = b.offset
	}

	return spanner.Statement{SQL: sql.String(), Params: params}
}

func (b *Builder) clone() *Builder {
	nb := *b
	nb.columns = append([]string(nil), b.columns...)
	nb.where = append([]Condition(nil), b.where...)
	nb.order = append([]ordering(nil), b.order...)
	return &nb
}

// String returns a human-readable representation for debugging.
func (b *Builder) String() string {
	stmt := b.Build()
	return fmt.Sprintf("SQL: %s\nParams: %v", stmt.SQL, stmt.Params)
}
