// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"

	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// Repository defines the data access contract for events.
type Repository interface {

	// List returns one page of events, latest start first. The keyword
	// matches name or description; the range applies to the start time.
	List(context context.Context, merchantDomain string, criteria pagination.Criteria) ([]*Event, int, error)

	// FindByID returns one event of the merchant.
	FindByID(context context.Context, merchantDomain, id string) (*Event, error)

	// Create inserts a new event.
	Create(context context.Context, merchantDomain string, event *Event) error

	/*
		Modify locks the event row, hands a copy to change and persists the
		status, liquidity and final figures change leaves behind.

		Returns:
		  - *Event: The stored event
		  - error: change's error, NotFound, or database errors
	*/
	Modify(context context.Context, merchantDomain, id string, change func(event *Event) error) (*Event, error)
}
