package query

import (
	"fmt"
	"strings"
)

// SortField is a single ORDER BY term expressed as a projected field name.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses "name,-created_at" into sort fields.
// A leading "-" marks the field descending.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Builder accumulates WHERE conditions and ordering against a Projection.
// Placeholders are numbered as conditions are added.
type Builder struct {
	proj        *Projection
	where       []string
	args        []any
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder with an optional default ordering.
func NewBuilder(p *Projection, defaultSort ...SortField) *Builder {
	return &Builder{proj: p, defaultSort: defaultSort}
}

func (b *Builder) param(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// Equals adds an equality condition. Nil pointers and unknown fields are ignored.
func (b *Builder) Equals(field string, value any) *Builder {
	col, ok := b.proj.Column(field)
	if !ok || value == nil {
		return b
	}
	switch v := value.(type) {
	case *string:
		if v == nil {
			return b
		}
		value = *v
	case *bool:
		if v == nil {
			return b
		}
		value = *v
	}
	b.where = append(b.where, col+" = "+b.param(value))
	return b
}

// Search adds a case-insensitive match of term across fields joined by OR.
func (b *Builder) Search(term *string, fields ...string) *Builder {
	if term == nil || *term == "" {
		return b
	}
	var ors []string
	pattern := "%" + *term + "%"
	for _, f := range fields {
		if col, ok := b.proj.Column(f); ok {
			ors = append(ors, col+" ILIKE "+b.param(pattern))
		}
	}
	if len(ors) > 0 {
		b.where = append(b.where, "("+strings.Join(ors, " OR ")+")")
	}
	return b
}

// OrderBy replaces the default ordering. Unknown fields are dropped.
func (b *Builder) OrderBy(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// Count returns a COUNT(*) statement over the current conditions.
func (b *Builder) Count() (string, []any) {
	return "SELECT COUNT(*) FROM " + b.proj.From() + b.whereClause(), b.args
}

// Page returns a SELECT with ordering, LIMIT and OFFSET applied.
func (b *Builder) Page(page, size int) (string, []any) {
	q := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.proj.Select(), b.proj.From(), b.whereClause(), b.orderClause(),
		size, (page-1)*size,
	)
	return q, b.args
}

// Single returns a SELECT for the row whose field equals value.
func (b *Builder) Single(field string, value any) (string, []any) {
	col, _ := b.proj.Column(field)
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", b.proj.Select(), b.proj.From(), col)
	return q, []any{value}
}

func (b *Builder) whereClause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

func (b *Builder) orderClause() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	var terms []string
	for _, f := range fields {
		col, ok := b.proj.Column(f.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir)
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}
