// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/merchantdesk/internal/console/listmgr"
	"github.com/taibuivan/merchantdesk/internal/console/screen"
	"github.com/taibuivan/merchantdesk/internal/console/session"
	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/merchant/event"
	"github.com/taibuivan/merchantdesk/internal/merchant/points"
	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/pkg/format"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
	"github.com/taibuivan/merchantdesk/pkg/pointer"
)

// action runs fn after the route guard admitted the session to screen.
func action(runtime *Runtime, name string, fn func(ctx context.Context, cmd *cobra.Command, current session.Session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		current := runtime.Store.Snapshot()
		if _, err := enter(current, name); err != nil {
			return err
		}
		return fn(cmd.Context(), cmd, current, args)
	}
}

// loaded builds a manager and loads every row the rules need to see.
func loaded[T any](ctx context.Context, manager *listmgr.Manager[T]) (*listmgr.Manager[T], error) {
	if _, err := manager.Load(ctx, everything()); err != nil {
		manager.Close()
		return nil, err
	}
	return manager, nil
}

// # API Keys

func newAPIKeyCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys",
	}

	var name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an active API key",
		Args:  cobra.NoArgs,
		RunE: action(runtime, ScreenAPIKeys, func(ctx context.Context, cmd *cobra.Command, current session.Session, _ []string) error {
			keys, err := loaded(ctx, screen.APIKeys(runtime.sources(current).APIKeys, runtime.Logger))
			if err != nil {
				return err
			}
			defer keys.Close()

			created, err := keys.Create(ctx, apikey.APIKey{Name: name, Status: apikey.StatusActive})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created API key %s (%s)\n%s\n", created.ID, created.Name, created.Key)
			return nil
		}),
	}
	create.Flags().StringVar(&name, "name", "", "Key name")

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Enable or disable an API key",
		Args:  cobra.ExactArgs(1),
		RunE: action(runtime, ScreenAPIKeys, func(ctx context.Context, cmd *cobra.Command, current session.Session, args []string) error {
			keys, err := loaded(ctx, screen.APIKeys(runtime.sources(current).APIKeys, runtime.Logger))
			if err != nil {
				return err
			}
			defer keys.Close()

			toggled, err := keys.Toggle(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key %s is now %s\n", toggled.ID, toggled.Status)
			return nil
		}),
	}

	remove := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: action(runtime, ScreenAPIKeys, func(ctx context.Context, cmd *cobra.Command, current session.Session, args []string) error {
			keys, err := loaded(ctx, screen.APIKeys(runtime.sources(current).APIKeys, runtime.Logger))
			if err != nil {
				return err
			}
			defer keys.Close()

			if err := keys.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted API key %s\n", args[0])
			return nil
		}),
	}

	regenerate := &cobra.Command{
		Use:   "regenerate <id>",
		Short: "Issue a new secret for an API key",
		Args:  cobra.ExactArgs(1),
		RunE: action(runtime, ScreenAPIKeys, func(ctx context.Context, cmd *cobra.Command, current session.Session, args []string) error {
			key, err := runtime.sources(current).Keys.Regenerate(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "New key for %s:\n%s\n", key.ID, key.Key)
			return nil
		}),
	}

	traffic := &cobra.Command{
		Use:   "traffic <id>",
		Short: "Show the traffic of an API key",
		Args:  cobra.ExactArgs(1),
		RunE: action(runtime, ScreenAPIKeys, func(ctx context.Context, cmd *cobra.Command, current session.Session, args []string) error {
			report, err := runtime.sources(current).Keys.Traffic(ctx, args[0])
			if err != nil {
				return err
			}
			printFields(cmd.OutOrStdout(), [][2]string{
				{"Traffic", format.Traffic(report.Traffic)},
				{"Last used", stampPtr(report.Details.LastUsedAt)},
			})
			return nil
		}),
	}

	cmd.AddCommand(create, toggle, remove, regenerate, traffic)
	return cmd
}

// # Sign Configurations

func newSignConfigCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signconfig",
		Short: "Manage Sign-service configurations",
	}

	var input signconfig.Input
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a Sign-service endpoint",
		Args:  cobra.NoArgs,
		RunE: action(runtime, ScreenSignConfig, func(ctx context.Context, cmd *cobra.Command, current session.Session, _ []string) error {
			configs, err := loaded(ctx, screen.SignConfigs(runtime.sources(current).SignConfigs, runtime.Logger))
			if err != nil {
				return err
			}
			defer configs.Close()

			created, err := configs.Create(ctx, signconfig.Config{
				URL:         strings.TrimSpace(input.URL),
				Description: strings.TrimSpace(input.Description),
			})
			if err != nil {
				return err
			}

			state := "inactive"
			if created.IsActive {
				state = "active"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added sign configuration %s (%s)\n", created.ID, state)
			return nil
		}),
	}
	add.Flags().StringVar(&input.URL, "url", "", "Service URL")
	add.Flags().StringVar(&input.Description, "description", "", "Description")

	activate := &cobra.Command{
		Use:   "activate <id>",
		Short: "Make a configuration the active one",
		Args:  cobra.ExactArgs(1),
		RunE: action(runtime, ScreenSignConfig, func(ctx context.Context, cmd *cobra.Command, current session.Session, args []string) error {
			configs, err := loaded(ctx, screen.SignConfigs(runtime.sources(current).SignConfigs, runtime.Logger))
			if err != nil {
				return err
			}
			defer configs.Close()

			if err := configs.SetExclusiveFlag(ctx, args[0], screen.FlagActive); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sign configuration %s is now active\n", args[0])
			return nil
		}),
	}

	remove := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a configuration",
		Args:  cobra.ExactArgs(1),
		RunE: action(runtime, ScreenSignConfig, func(ctx context.Context, cmd *cobra.Command, current session.Session, args []string) error {
			configs, err := loaded(ctx, screen.SignConfigs(runtime.sources(current).SignConfigs, runtime.Logger))
			if err != nil {
				return err
			}
			defer configs.Close()

			if err := configs.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted sign configuration %s\n", args[0])
			return nil
		}),
	}

	test := &cobra.Command{
		Use:   "test <url>",
		Short: "Check that a Sign-service URL answers",
		Args:  cobra.ExactArgs(1),
		RunE: action(runtime, ScreenSignConfig, func(ctx context.Context, cmd *cobra.Command, current session.Session, args []string) error {
			result, err := runtime.sources(current).Sign.Test(ctx, args[0])
			if err != nil {
				return err
			}
			verdict := "FAILED"
			if result.Success {
				verdict = "OK"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verdict, result.Message)
			return nil
		}),
	}

	cmd.AddCommand(add, activate, remove, test)
	return cmd
}

// # Points

func newPointsCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "points",
		Short: "Allocate loyalty points",
	}

	var input points.AllocateInput
	allocate := &cobra.Command{
		Use:   "allocate",
		Short: "Grant points to a user",
		Args:  cobra.NoArgs,
		RunE: action(runtime, ScreenPoints, func(ctx context.Context, cmd *cobra.Command, current session.Session, _ []string) error {
			if err := require(current, sec.PermAllocatePoint); err != nil {
				return err
			}

			screenPoints := screen.NewPoints(runtime.Sources.Allocations, runtime.Sources.Points, current.Identity.MerchantDomain, runtime.Logger)
			defer screenPoints.Close()

			if _, err := screenPoints.Load(ctx, everything()); err != nil {
				return err
			}
			if _, err := screenPoints.Refresh(ctx); err != nil {
				return err
			}

			created, err := screenPoints.Allocate(ctx, input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Allocated %s points to %s\n", format.Number(float64(created.Points)), created.Username)
			fmt.Fprintf(out, "Remaining: %s\n", format.Number(float64(screenPoints.Balance().RemainingPoints)))
			return nil
		}),
	}
	allocate.Flags().StringVar(&input.UserID, "user", "", "User ID")
	allocate.Flags().Int64Var(&input.Points, "points", 0, "Points to grant")
	allocate.Flags().StringVar(&input.Note, "note", "", "Optional note")

	cmd.AddCommand(allocate)
	return cmd
}

// # Events

func newEventCommand(runtime *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Run promotional events",
	}

	var (
		finalAmount string
		finalPoints int64
	)
	settle := &cobra.Command{
		Use:   "settle <id>",
		Short: "Settle an active event with its final figures",
		Args:  cobra.ExactArgs(1),
		RunE: action(runtime, ScreenEvents, func(ctx context.Context, cmd *cobra.Command, _ session.Session, args []string) error {
			return transition(ctx, cmd, runtime, args[0], func(item event.Event) event.Event {
				item.Status = event.StatusSettled
				item.FinalAmount = pointer.To(finalAmount)
				item.FinalPoints = pointer.To(finalPoints)
				return item
			})
		}),
	}
	settle.Flags().StringVar(&finalAmount, "final-amount", "", "Final amount")
	settle.Flags().Int64Var(&finalPoints, "final-points", 0, "Final points")

	end := &cobra.Command{
		Use:   "end <id>",
		Short: "End an active event without settling it",
		Args:  cobra.ExactArgs(1),
		RunE: action(runtime, ScreenEvents, func(ctx context.Context, cmd *cobra.Command, _ session.Session, args []string) error {
			return transition(ctx, cmd, runtime, args[0], func(item event.Event) event.Event {
				item.Status = event.StatusEnded
				return item
			})
		}),
	}

	var (
		draft      event.Event
		start, due string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Open a new event",
		Args:  cobra.NoArgs,
		RunE: action(runtime, ScreenCreateEvent, func(ctx context.Context, cmd *cobra.Command, _ session.Session, _ []string) error {
			var err error
			if draft.StartTime, err = parseDate(event.FieldStartTime, start); err != nil {
				return err
			}
			if draft.EndTime, err = parseDate(event.FieldEndTime, due); err != nil {
				return err
			}

			events := screen.Events(runtime.Sources.Events, runtime.Logger)
			defer events.Close()

			created, err := events.Create(ctx, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created event %s (%s)\n", created.ID, created.Name)
			return nil
		}),
	}
	flags := create.Flags()
	flags.StringVar(&draft.Name, "name", "", "Event name")
	flags.StringVar(&draft.Description, "description", "", "Description")
	flags.StringVar((*string)(&draft.Type), "type", string(event.TypeOther), "Event type")
	flags.StringVar(&start, "start", "", "Start date, YYYY-MM-DD")
	flags.StringVar(&due, "end", "", "End date, YYYY-MM-DD")
	flags.StringVar(&draft.TargetAmount, "target", "0", "Target amount")
	flags.Int64Var(&draft.RewardPoints, "reward", 0, "Reward points")

	cmd.AddCommand(create, settle, end)
	return cmd
}

func transition(ctx context.Context, cmd *cobra.Command, runtime *Runtime, id string, patch func(event.Event) event.Event) error {
	events, err := loaded(ctx, screen.Events(runtime.Sources.Events, runtime.Logger))
	if err != nil {
		return err
	}
	defer events.Close()

	updated, err := events.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Event %s is now %s\n", updated.ID, updated.Status)
	return nil
}

func parseDate(field, raw string) (t time.Time, err error) {
	t, err = pagination.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return t, apperr.ValidationError("Invalid date",
			apperr.FieldError{Field: field, Message: "Must be YYYY-MM-DD"})
	}
	return t, nil
}
