// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package customer

import (
	"context"

	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// Repository defines the read contract for users and orders.
type Repository interface {

	/*
		ListUsers returns one page of the merchant's users, newest first.

		The keyword matches username, email or phone; the date range applies
		to the registration time.

		Returns:
		  - []*User: One page, each with its order aggregates
		  - int: Total matching users
		  - error: Database errors
	*/
	ListUsers(context context.Context, merchantDomain string, criteria pagination.Criteria) ([]*User, int, error)

	// FindUser returns one user, or NotFound when it belongs to another merchant.
	FindUser(context context.Context, merchantDomain, id string) (*User, error)

	/*
		ListOrders returns one page of orders, newest first.

		An empty userID lists every order of the merchant. The keyword matches
		the order number, status is exact and the range applies to createdAt.
	*/
	ListOrders(context context.Context, merchantDomain, userID string, criteria pagination.Criteria) ([]*Order, int, error)

	// CountUsers returns the number of users of the merchant.
	CountUsers(context context.Context, merchantDomain string) (int, error)
}
