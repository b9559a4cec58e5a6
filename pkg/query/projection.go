// Package query builds parameterized PostgreSQL SELECT statements from a
// field-to-column projection.
package query

import "strings"

// Projection maps logical field names to alias-qualified columns of one table.
type Projection struct {
	table   string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjection creates a Projection for table, referenced through alias.
func NewProjection(table, alias string) *Projection {
	return &Projection{
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps field to column. Columns are selected in the order projected.
func (p *Projection) Project(column, field string) *Projection {
	qualified := p.alias + "." + column
	p.columns[field] = qualified
	p.order = append(p.order, qualified)
	return p
}

// From returns the table reference with its alias.
func (p *Projection) From() string {
	return p.table + " " + p.alias
}

// Column resolves a field name. The second result is false for unknown fields.
func (p *Projection) Column(field string) (string, bool) {
	col, ok := p.columns[field]
	return col, ok
}

// Select returns the comma-separated column list.
func (p *Projection) Select() string {
	return strings.Join(p.order, ", ")
}
