// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fixture

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/merchant/asset"
	"github.com/taibuivan/merchantdesk/internal/merchant/customer"
	"github.com/taibuivan/merchantdesk/internal/merchant/event"
	"github.com/taibuivan/merchantdesk/internal/merchant/points"
	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/system/bizadmin"
	"github.com/taibuivan/merchantdesk/internal/system/domainconfig"
	"github.com/taibuivan/merchantdesk/internal/system/transaction"
)

// Seed sizes and balances.
const (
	MerchantDomain = "test.yc365.com"
	WalletAddress  = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

	SeedUsers       = 50
	SeedOrders      = 20
	SeedAllocations = 30

	SeedTotalPoints = 100000
	SeedUsedPoints  = 45000

	// OrdersUserID owns every seeded order.
	OrdersUserID = "1"
)

// seed is the initial content of a [Backend]. The generator is seeded with
// a constant so every run starts from the same rows.
type seed struct {
	admins       []bizadmin.BusinessAdmin
	transactions []transaction.Transaction
	signConfigs  []signconfig.Config
	assets       asset.Assets
	users        []customer.User
	orders       []customer.Order
	keys         []apikey.APIKey
	points       points.Info
	allocations  []points.Allocation
	events       []event.Event
	domain       domainconfig.DomainConfig
}

func newSeed(now time.Time) seed {
	random := rand.New(rand.NewPCG(2026, 1016))
	daysAgo := func(days int) time.Time {
		return now.Add(-time.Duration(random.IntN(days*24)) * time.Hour)
	}
	amount := func(max float64) string {
		return decimal.NewFromFloat(random.Float64() * max).StringFixed(2)
	}

	s := seed{points: points.NewInfo(SeedTotalPoints, SeedUsedPoints)}

	s.admins = []bizadmin.BusinessAdmin{
		{
			ID: "1", Account: "business_admin_1", MerchantDomain: MerchantDomain, Status: auth.StatusActive,
			Permissions: []sec.Permission{sec.PermViewAssets, sec.PermViewUsers, sec.PermManageAPIKeys},
			CreatedAt:   daysAgo(90),
		},
		{
			ID: "2", Account: "business_admin_2", MerchantDomain: MerchantDomain, Status: auth.StatusActive,
			Permissions: []sec.Permission{sec.PermViewAssets, sec.PermViewUsers, sec.PermManageAPIKeys, sec.PermViewPoints, sec.PermAllocatePoint},
			CreatedAt:   daysAgo(60),
		},
		{
			ID: "3", Account: "business_admin_3", MerchantDomain: MerchantDomain, Status: auth.StatusDisabled,
			Permissions: []sec.Permission{sec.PermConfigureSign},
			CreatedAt:   daysAgo(30),
		},
	}

	completed := func(at time.Time) *time.Time {
		done := at.Add(time.Hour)
		return &done
	}
	first, second := daysAgo(10), daysAgo(5)
	s.transactions = []transaction.Transaction{
		{
			ID: "1", Type: transaction.TypeDeposit, Amount: "10000.00", WalletAddress: WalletAddress,
			TxHash: "0x1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef",
			Status: transaction.StatusCompleted, CreatedAt: first, CompletedAt: completed(first),
		},
		{
			ID: "2", Type: transaction.TypeWithdraw, Amount: "5000.00", WalletAddress: WalletAddress,
			TxHash: "0xabcdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890",
			Status: transaction.StatusCompleted, CreatedAt: second, CompletedAt: completed(second),
		},
		{
			ID: "3", Type: transaction.TypeDeposit, Amount: "20000.00", WalletAddress: WalletAddress,
			Status: transaction.StatusPending, CreatedAt: daysAgo(1),
		},
	}

	s.signConfigs = []signconfig.Config{
		{ID: "1", URL: "https://sign.yc365.com", Description: "Primary Sign service", IsActive: true, CreatedAt: daysAgo(90), UpdatedAt: daysAgo(10)},
		{ID: "2", URL: "https://sign-backup.yc365.com", Description: "Backup Sign service", CreatedAt: daysAgo(60), UpdatedAt: daysAgo(30)},
	}

	s.assets = *asset.New(decimal.RequireFromString("500000.00"), decimal.RequireFromString("123456.78"), WalletAddress)

	s.users = make([]customer.User, SeedUsers)
	for i := range s.users {
		n := i + 1
		s.users[i] = customer.User{
			ID:           strconv.Itoa(n),
			Username:     fmt.Sprintf("user_%d", n),
			Email:        fmt.Sprintf("user%d@example.com", n),
			Phone:        fmt.Sprintf("138%08d", 10000000+i),
			RegisteredAt: daysAgo(180),
			LastActiveAt: daysAgo(7),
			OrderCount:   random.IntN(50),
			TotalSpent:   amount(10000),
		}
	}

	statuses := []customer.OrderStatus{customer.OrderPending, customer.OrderCompleted, customer.OrderFailed, customer.OrderCancelled}
	s.orders = make([]customer.Order, SeedOrders)
	for i := range s.orders {
		created := daysAgo(30)
		order := customer.Order{
			ID:        strconv.Itoa(i + 1),
			UserID:    OrdersUserID,
			OrderNo:   fmt.Sprintf("ORD%d%d", now.UnixMilli(), i),
			Amount:    amount(1000),
			Status:    statuses[random.IntN(len(statuses))],
			CreatedAt: created,
		}
		if order.Status == customer.OrderCompleted {
			order.CompletedAt = completed(created)
		}
		s.orders[i] = order
	}

	lastUsed := func(days int) *time.Time {
		at := daysAgo(days)
		return &at
	}
	s.keys = []apikey.APIKey{
		{ID: "1", Key: "yk_live_1234567890abcdefghijklmnopqrstuvwxyz1234567890", Name: "Production API Key",
			CreatedAt: daysAgo(90), LastUsedAt: lastUsed(1), Traffic: 500 << 20, Status: apikey.StatusActive},
		{ID: "2", Key: "yk_test_abcdefghijklmnopqrstuvwxyz1234567890abcdefgh", Name: "Staging API Key",
			CreatedAt: daysAgo(60), LastUsedAt: lastUsed(5), Traffic: 100 << 20, Status: apikey.StatusActive},
		{ID: "3", Key: "yk_dev_xyz123abc456def789ghi012jkl345mno678pqr901stu", Name: "Development API Key",
			CreatedAt: daysAgo(30), Traffic: 10 << 20, Status: apikey.StatusDisabled},
	}

	s.allocations = make([]points.Allocation, SeedAllocations)
	for i := range s.allocations {
		user := s.users[random.IntN(len(s.users))]
		allocation := points.Allocation{
			ID:          strconv.Itoa(i + 1),
			UserID:      user.ID,
			Username:    user.Username,
			Points:      int64(random.IntN(5000) + 100),
			AllocatedAt: daysAgo(60),
			AllocatedBy: "business_admin",
		}
		if random.IntN(2) == 0 {
			allocation.Note = "Campaign reward"
		}
		s.allocations[i] = allocation
	}

	finalAmount, finalPoints := "48250.00", int64(12000)
	s.events = []event.Event{
		{
			ID: "1", Name: "World Cup Prediction", Description: "Predict the final score", Type: event.TypePrediction,
			Status: event.StatusActive, StartTime: now.Add(-72 * time.Hour), EndTime: now.Add(14 * 24 * time.Hour),
			TargetAmount: "100000", CurrentAmount: "35210.50", RewardPoints: 5000, Liquidity: "20000", CreatedAt: daysAgo(5),
		},
		{
			ID: "2", Name: "Trading Sprint", Description: "Weekly volume race", Type: event.TypeTrading,
			Status: event.StatusSettled, StartTime: now.Add(-30 * 24 * time.Hour), EndTime: now.Add(-23 * 24 * time.Hour),
			TargetAmount: "50000", CurrentAmount: "48250.00", RewardPoints: 12000, Liquidity: "0",
			FinalAmount: &finalAmount, FinalPoints: &finalPoints, CreatedAt: daysAgo(40),
		},
		{
			ID: "3", Name: "Invite a Friend", Description: "Referral bonus", Type: event.TypeReferral,
			Status: event.StatusEnded, StartTime: now.Add(-60 * 24 * time.Hour), EndTime: now.Add(-45 * 24 * time.Hour),
			TargetAmount: "0", CurrentAmount: "0", RewardPoints: 200, Liquidity: "0", CreatedAt: daysAgo(70),
		},
	}

	updated := daysAgo(20)
	s.domain = domainconfig.DomainConfig{MerchantDomain: MerchantDomain, CallbackURL: "https://test.yc365.com/callback", UpdatedAt: &updated}
	return s
}
