// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package query builds the filtered, paginated SQL shared by list repositories.

A [Builder] accumulates WHERE conditions with numbered pgx placeholders, so
the COUNT and the page query of a list endpoint reuse one set of filters:

	filter := query.New()
	filter.Eq(table.MerchantDomain, domain)
	filter.Keyword(criteria.Keyword, table.Username, table.Email)
	filter.Range(table.CreatedAt, criteria.Range)

	count := "SELECT COUNT(*) FROM t" + filter.Where()
	limit, args := filter.Paged(criteria.Params)
*/
package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// Builder accumulates AND-joined conditions and their arguments.
type Builder struct {
	conditions []string
	args       []any
}

// New returns an empty [Builder].
func New() *Builder {
	return &Builder{}
}

// Arg appends value and returns its placeholder.
func (builder *Builder) Arg(value any) string {
	builder.args = append(builder.args, value)
	return fmt.Sprintf("$%d", len(builder.args))
}

// Eq adds `column = value`.
func (builder *Builder) Eq(column string, value any) *Builder {
	builder.conditions = append(builder.conditions, column+" = "+builder.Arg(value))
	return builder
}

// EqIf adds `column = value` unless value is empty.
func (builder *Builder) EqIf(column, value string) *Builder {
	if value == "" {
		return builder
	}
	return builder.Eq(column, value)
}

// Keyword adds a case-insensitive substring match over any of columns.
func (builder *Builder) Keyword(keyword string, columns ...string) *Builder {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(columns) == 0 {
		return builder
	}

	placeholder := builder.Arg(pagination.LikePattern(keyword))
	matches := make([]string, 0, len(columns))
	for _, column := range columns {
		matches = append(matches, column+" ILIKE "+placeholder)
	}
	builder.conditions = append(builder.conditions, "("+strings.Join(matches, " OR ")+")")
	return builder
}

// Range adds the inclusive calendar range on column. A nil range adds nothing.
func (builder *Builder) Range(column string, dateRange *pagination.DateRange) *Builder {
	if dateRange == nil {
		return builder
	}
	builder.conditions = append(builder.conditions,
		column+" >= "+builder.Arg(dateRange.Lower()),
		column+" < "+builder.Arg(dateRange.UpperExclusive()),
	)
	return builder
}

// Raw adds a literal condition with no arguments.
func (builder *Builder) Raw(condition string) *Builder {
	builder.conditions = append(builder.conditions, condition)
	return builder
}

// Where renders " WHERE ..." or an empty string.
func (builder *Builder) Where() string {
	if len(builder.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(builder.conditions, " AND ")
}

// Args returns a copy of the accumulated arguments.
func (builder *Builder) Args() []any {
	return slices.Clone(builder.args)
}

// Paged renders a LIMIT/OFFSET clause and returns it with the full argument
// list. The builder itself is left untouched so the COUNT query can still
// use [Builder.Args].
func (builder *Builder) Paged(params pagination.Params) (string, []any) {
	args := append(builder.Args(), params.PageSize, params.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

// Select joins columns for a SELECT list, casting the numeric ones to TEXT
// so decimal amounts scan into strings without precision loss.
func Select(columns []string, numeric ...string) string {
	out := make([]string, len(columns))
	for i, column := range columns {
		if slices.Contains(numeric, column) {
			out[i] = column + "::TEXT"
			continue
		}
		out[i] = column
	}
	return strings.Join(out, ", ")
}

// Placeholders returns "$from, $from+1, ..." for n arguments.
func Placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}

// StringSlice splits a comma-separated value into trimmed, non-empty parts.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
