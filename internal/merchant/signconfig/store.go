// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signconfig

import "context"

// Plan lists the writes computed from a locked snapshot.
type Plan struct {
	Insert   *Config
	Updates  []Config
	DeleteID string
}

// Repository defines the data access contract for Sign-service configurations.
type Repository interface {

	// List returns every configuration of the merchant, oldest first.
	List(context context.Context, merchantDomain string) ([]Config, error)

	/*
		Apply locks the merchant's configurations, hands the snapshot to
		decide and writes the returned [Plan] in the same transaction.

		Parameters:
		  - context: context.Context
		  - merchantDomain: string
		  - decide: func([]Config) (Plan, error)

		Returns:
		  - error: decide's error, or database errors
	*/
	Apply(context context.Context, merchantDomain string, decide func(current []Config) (Plan, error)) error
}
