// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package points

import (
	"context"

	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// Repository defines the data access contract for points.
type Repository interface {

	// Info returns the balance, zeroed when the merchant has none.
	Info(context context.Context, merchantDomain string) (Info, error)

	// ListAllocations returns one page of allocations, newest first, with
	// the keyword matched against the username.
	ListAllocations(context context.Context, merchantDomain string, criteria pagination.Criteria) ([]*Allocation, int, error)

	/*
		Allocate locks the balance, lets check inspect it, resolves the
		recipient's username and writes the allocation and the new balance in
		one transaction.

		Parameters:
		  - context: context.Context
		  - merchantDomain: string
		  - allocation: *Allocation (ID, UserID, Points, AllocatedAt, AllocatedBy, Note set; Username is filled in)
		  - check: func(Info) error

		Returns:
		  - Info: The balance after the allocation
		  - error: check's error, NotFound for an unknown user, or database errors
	*/
	Allocate(context context.Context, merchantDomain string, allocation *Allocation, check func(Info) error) (Info, error)
}
