// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/taibuivan/merchantdesk/internal/console/listmgr"
	"github.com/taibuivan/merchantdesk/internal/console/resource"
	"github.com/taibuivan/merchantdesk/internal/console/screen"
	"github.com/taibuivan/merchantdesk/internal/console/session"
	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/merchant/customer"
	"github.com/taibuivan/merchantdesk/internal/merchant/event"
	"github.com/taibuivan/merchantdesk/internal/merchant/points"
	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/system/bizadmin"
	"github.com/taibuivan/merchantdesk/internal/system/transaction"
	"github.com/taibuivan/merchantdesk/pkg/format"
)

const (
	timeLayout = "2006-01-02 15:04"
	noValue    = "-"
	noData     = "Backend unreachable, no data to show"
)

// # Tables

func printTable[T any](out io.Writer, view listmgr.View[T], header []string, cells func(T) []string) {
	if view.Degraded {
		fmt.Fprintln(out, noData)
		return
	}

	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, strings.Join(header, "\t"))
	for _, item := range view.Items {
		fmt.Fprintln(writer, strings.Join(cells(item), "\t"))
	}
	_ = writer.Flush()

	pages := 1
	if view.PageSize > 0 && view.Total > 0 {
		pages = (view.Total + view.PageSize - 1) / view.PageSize
	}
	fmt.Fprintf(out, "\nPage %d of %d, %d total\n", max(view.Page, 1), pages, view.Total)
}

func printFields(out io.Writer, fields [][2]string) {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, field := range fields {
		fmt.Fprintf(writer, "%s:\t%s\n", field[0], field[1])
	}
	_ = writer.Flush()
}

func listScreen[T any](ctx context.Context, manager *listmgr.Manager[T], options viewOptions, out io.Writer, header []string, cells func(T) []string) error {
	defer manager.Close()

	view, err := manager.Load(ctx, options.criteria)
	if err != nil {
		return err
	}
	printTable(out, view, header, cells)
	return nil
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return noValue
	}
	return t.Local().Format(timeLayout)
}

func stampPtr(t *time.Time) string {
	if t == nil {
		return noValue
	}
	return stamp(*t)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return noValue
	}
	return value
}

// # Dashboards

func renderDashboard(ctx context.Context, runtime *Runtime, current session.Session, _ viewOptions, out io.Writer) error {
	if current.Role() == sec.RoleSystemAdmin {
		stats, err := runtime.Sources.Dashboard.System(ctx)
		if err != nil {
			return degraded(err, out)
		}
		printFields(out, [][2]string{
			{"Business admins", strconv.Itoa(stats.TotalAdmins)},
			{"Active admins", strconv.Itoa(stats.ActiveAdmins)},
			{"Total assets", format.Currency(stats.TotalAssets, "")},
			{"Monthly change", fmt.Sprintf("%+.2f%%", stats.MonthlyChange)},
		})
		return nil
	}

	stats, err := runtime.Sources.Dashboard.Business(ctx, current.Identity.MerchantDomain)
	if err != nil {
		return degraded(err, out)
	}
	printFields(out, [][2]string{
		{"Total assets", format.Currency(stats.TotalAssets, "")},
		{"Used assets", format.Currency(stats.UsedAssets, "")},
		{"Remaining assets", format.Currency(stats.RemainingAssets, "")},
		{"Users", strconv.Itoa(stats.UserCount)},
		{"API keys", strconv.Itoa(stats.APIKeyCount)},
		{"Points", format.Number(float64(stats.TotalPoints))},
	})
	return nil
}

// degraded prints the "no data" notice for an unreachable backend and
// passes every other error through.
func degraded(err error, out io.Writer) error {
	if resource.Degrade(err) {
		fmt.Fprintln(out, noData)
		return nil
	}
	return err
}

func renderAssets(ctx context.Context, runtime *Runtime, current session.Session, _ viewOptions, out io.Writer) error {
	assets, err := runtime.Sources.Assets.Get(ctx, current.Identity.MerchantDomain)
	if err != nil {
		return degraded(err, out)
	}
	printFields(out, [][2]string{
		{"Total", format.Currency(assets.TotalAssets, "")},
		{"Used", format.Currency(assets.UsedAssets, "")},
		{"Remaining", format.Currency(assets.RemainingAssets, "")},
		{"Wallet", orDash(assets.WalletAddress)},
	})
	return nil
}

func renderDomainConfig(ctx context.Context, runtime *Runtime, _ session.Session, _ viewOptions, out io.Writer) error {
	config, err := runtime.Sources.Domain.Get(ctx)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			fmt.Fprintln(out, "No domain configured yet")
			return nil
		}
		return degraded(err, out)
	}
	printFields(out, [][2]string{
		{"Merchant domain", config.MerchantDomain},
		{"Callback URL", orDash(config.CallbackURL)},
		{"Updated", stampPtr(config.UpdatedAt)},
	})
	return nil
}

// # System Admin Lists

func renderAdmins(ctx context.Context, runtime *Runtime, _ session.Session, options viewOptions, out io.Writer) error {
	return listScreen(ctx, screen.Admins(runtime.Sources.Admins, runtime.Logger), options, out,
		[]string{"ID", "ACCOUNT", "DOMAIN", "STATUS", "PERMISSIONS", "CREATED", "LAST LOGIN"},
		func(admin bizadmin.BusinessAdmin) []string {
			return []string{
				admin.ID, admin.Account, admin.MerchantDomain, string(admin.Status),
				strconv.Itoa(len(admin.Permissions)), stamp(admin.CreatedAt), stampPtr(admin.LastLoginAt),
			}
		})
}

func renderTransactions(ctx context.Context, runtime *Runtime, _ session.Session, options viewOptions, out io.Writer) error {
	kinds := []transaction.Type{transaction.TypeDeposit, transaction.TypeWithdraw}
	if options.kind != "" {
		kind := transaction.Type(options.kind)
		if kind != transaction.TypeDeposit && kind != transaction.TypeWithdraw {
			return apperr.ValidationError("Kind must be deposit or withdraw")
		}
		kinds = []transaction.Type{kind}
	}

	for i, kind := range kinds {
		source, title := runtime.Sources.Deposits, "Deposits"
		if kind == transaction.TypeWithdraw {
			source, title = runtime.Sources.Withdrawals, "Withdrawals"
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s\n", title)

		err := listScreen(ctx, screen.Transactions(source, runtime.Logger), options, out,
			[]string{"ID", "AMOUNT", "WALLET", "TX HASH", "STATUS", "CREATED", "COMPLETED"},
			func(item transaction.Transaction) []string {
				return []string{
					item.ID, format.Currency(item.Amount, ""), format.Address(item.WalletAddress, 6, 4),
					orDash(format.Address(item.TxHash, 6, 4)), string(item.Status),
					stamp(item.CreatedAt), stampPtr(item.CompletedAt),
				}
			})
		if err != nil {
			return err
		}
	}
	return nil
}

// # Shared Lists

func renderSignConfigs(ctx context.Context, runtime *Runtime, current session.Session, options viewOptions, out io.Writer) error {
	return listScreen(ctx, screen.SignConfigs(runtime.sources(current).SignConfigs, runtime.Logger), options, out,
		[]string{"ID", "URL", "DESCRIPTION", "ACTIVE", "CREATED"},
		func(config signconfig.Config) []string {
			active := ""
			if config.IsActive {
				active = "*"
			}
			return []string{config.ID, config.URL, format.Truncate(config.Description, 40), active, stamp(config.CreatedAt)}
		})
}

func renderAPIKeys(ctx context.Context, runtime *Runtime, current session.Session, options viewOptions, out io.Writer) error {
	return listScreen(ctx, screen.APIKeys(runtime.sources(current).APIKeys, runtime.Logger), options, out,
		[]string{"ID", "NAME", "KEY", "STATUS", "TRAFFIC", "CREATED", "LAST USED"},
		func(key apikey.APIKey) []string {
			return []string{
				key.ID, key.Name, format.Address(key.Key, 8, 4), string(key.Status),
				format.Traffic(key.Traffic), stamp(key.CreatedAt), stampPtr(key.LastUsedAt),
			}
		})
}

// # Business Admin Lists

func renderUsers(ctx context.Context, runtime *Runtime, _ session.Session, options viewOptions, out io.Writer) error {
	return listScreen(ctx, screen.Users(runtime.Sources.Users, runtime.Logger), options, out,
		[]string{"ID", "USERNAME", "EMAIL", "PHONE", "ORDERS", "SPENT", "REGISTERED"},
		func(user customer.User) []string {
			return []string{
				user.ID, user.Username, user.Email, orDash(user.Phone), strconv.Itoa(user.OrderCount),
				format.Currency(user.TotalSpent, ""), stamp(user.RegisteredAt),
			}
		})
}

func renderOrders(ctx context.Context, runtime *Runtime, _ session.Session, options viewOptions, out io.Writer) error {
	source := runtime.Sources.Orders
	if options.userID != "" {
		source = runtime.Sources.UserOrders(options.userID)
	}
	return listScreen(ctx, screen.Orders(source, runtime.Logger), options, out,
		[]string{"ID", "ORDER NO", "USER", "AMOUNT", "STATUS", "CREATED", "COMPLETED"},
		func(order customer.Order) []string {
			return []string{
				order.ID, order.OrderNo, order.UserID, format.Currency(order.Amount, ""),
				string(order.Status), stamp(order.CreatedAt), stampPtr(order.CompletedAt),
			}
		})
}

func renderPoints(ctx context.Context, runtime *Runtime, current session.Session, options viewOptions, out io.Writer) error {
	allocations := screen.NewPoints(runtime.Sources.Allocations, runtime.Sources.Points, current.Identity.MerchantDomain, runtime.Logger)

	info, err := allocations.Refresh(ctx)
	if err != nil {
		if err = degraded(err, out); err != nil {
			return err
		}
	} else {
		printBalance(out, info)
	}
	fmt.Fprintln(out)

	return listScreen(ctx, allocations.Manager, options, out,
		[]string{"ID", "USER", "POINTS", "NOTE", "BY", "AT"},
		func(allocation points.Allocation) []string {
			return []string{
				allocation.ID, allocation.Username, format.Number(float64(allocation.Points)),
				orDash(format.Truncate(allocation.Note, 32)), allocation.AllocatedBy, stamp(allocation.AllocatedAt),
			}
		})
}

func printBalance(out io.Writer, info points.Info) {
	printFields(out, [][2]string{
		{"Total points", format.Number(float64(info.TotalPoints))},
		{"Used points", format.Number(float64(info.UsedPoints))},
		{"Remaining points", format.Number(float64(info.RemainingPoints))},
	})
}

func renderEvents(ctx context.Context, runtime *Runtime, _ session.Session, options viewOptions, out io.Writer) error {
	return listScreen(ctx, screen.Events(runtime.Sources.Events, runtime.Logger), options, out,
		[]string{"ID", "NAME", "TYPE", "STATUS", "TARGET", "CURRENT", "LIQUIDITY", "ENDS"},
		func(item event.Event) []string {
			return []string{
				item.ID, format.Truncate(item.Name, 28), string(item.Type), string(item.Status),
				format.NumberString(item.TargetAmount), format.NumberString(item.CurrentAmount),
				format.NumberString(item.Liquidity), stamp(item.EndTime),
			}
		})
}

func renderCreateEvent(_ context.Context, _ *Runtime, _ session.Session, _ viewOptions, out io.Writer) error {
	types := make([]string, len(event.Types))
	for i, kind := range event.Types {
		types[i] = string(kind)
	}
	fmt.Fprintf(out, "Event types: %s\n", strings.Join(types, ", "))
	fmt.Fprintln(out, "Create with: console event create --name ... --type ... --start YYYY-MM-DD --end YYYY-MM-DD")
	return nil
}
