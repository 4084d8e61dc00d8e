// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package customer exposes a merchant's end users and their orders.
package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is one end user registered with the merchant.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	RegisteredAt time.Time `json:"registeredAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
	OrderCount   int       `json:"orderCount"`
	TotalSpent   string    `json:"totalSpent"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderFailed    OrderStatus = "failed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is one purchase made by a user.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	OrderNo     string      `json:"orderNo"`
	Amount      string      `json:"amount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
}

// Spent sums the completed orders, the rule behind [User.TotalSpent].
func Spent(orders []*Order) decimal.Decimal {
	total := decimal.Zero
	for _, order := range orders {
		if order.Status != OrderCompleted {
			continue
		}
		if amount, err := decimal.NewFromString(order.Amount); err == nil {
			total = total.Add(amount)
		}
	}
	return total
}

const (
	userResource  = "User"
	orderResource = "Order"
)
