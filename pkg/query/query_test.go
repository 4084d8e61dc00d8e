// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/pkg/pagination"
	"github.com/taibuivan/merchantdesk/pkg/query"
)

/*
TestBuilder_NumbersPlaceholdersInOrder checks the rendered WHERE clause and
that the page clause continues the numbering.
*/
func TestBuilder_NumbersPlaceholdersInOrder(t *testing.T) {
	dateRange, err := pagination.ParseRange("2026-01-01", "2026-01-31")
	require.NoError(t, err)

	filter := query.New()
	filter.Eq("merchantdomain", "shop.example.com").
		EqIf("status", "").
		Keyword("Bob", "username", "email").
		Range("createdat", dateRange)

	assert.Equal(t,
		" WHERE merchantdomain = $1 AND (username ILIKE $2 OR email ILIKE $2) AND createdat >= $3 AND createdat < $4",
		filter.Where())
	assert.Len(t, filter.Args(), 4)
	assert.Equal(t, "%Bob%", filter.Args()[1])

	limit, args := filter.Paged(pagination.Params{Page: 3, PageSize: 10})
	assert.Equal(t, " LIMIT $5 OFFSET $6", limit)
	assert.Equal(t, []any{10, 20}, args[4:])
	assert.Len(t, filter.Args(), 4, "Paged must not grow the builder")
}

/*
TestBuilder_Empty renders nothing when no condition applies.
*/
func TestBuilder_Empty(t *testing.T) {
	filter := query.New().EqIf("status", "").Keyword("  ", "name").Range("createdat", nil)

	assert.Empty(t, filter.Where())
	assert.Empty(t, filter.Args())
}

/*
TestSelect casts only the numeric columns.
*/
func TestSelect(t *testing.T) {
	assert.Equal(t, "id, amount::TEXT, status", query.Select([]string{"id", "amount", "status"}, "amount"))
	assert.Equal(t, "$3, $4, $5", query.Placeholders(3, 3))
}

/*
TestStringSlice trims and drops empty entries.
*/
func TestStringSlice(t *testing.T) {
	assert.Equal(t, []string{"view_assets", "view_users"}, query.StringSlice(" view_assets, ,view_users "))
	assert.Nil(t, query.StringSlice(""))
}
