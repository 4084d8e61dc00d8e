// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey

import "context"

// Plan lists the writes computed from a locked snapshot.
type Plan struct {
	Insert   *APIKey
	Update   *APIKey
	DeleteID string
}

// Repository defines the data access contract for API keys.
type Repository interface {

	// List returns every key of the merchant, oldest first.
	List(context context.Context, merchantDomain string) ([]APIKey, error)

	/*
		Apply locks the merchant's keys, hands the snapshot to decide and
		writes the returned [Plan] in the same transaction.

		Parameters:
		  - context: context.Context
		  - merchantDomain: string
		  - decide: func([]APIKey) (Plan, error)

		Returns:
		  - error: decide's error, or database errors
	*/
	Apply(context context.Context, merchantDomain string, decide func(current []APIKey) (Plan, error)) error
}
