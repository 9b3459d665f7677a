package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

const usage = `usage:
  shopctl cleanup-orders [--hours N] [--dry-run]
  shopctl create-staff --email EMAIL --password PASSWORD
`

type staffRegistrar interface {
	Register(ctx context.Context, email, password string) (*model.Staff, error)
}

type orderSweeper interface {
	Sweep(ctx context.Context, age time.Duration, dryRun bool) (int64, error)
}

type toolkit struct {
	staff  staffRegistrar
	sweeps orderSweeper
}

type command func(ctx context.Context, kit toolkit, out io.Writer) error

// parseCommand validates arguments before any database work happens.
func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return nil, errors.New("missing command")
	}

	switch args[0] {
	case "cleanup-orders":
		return parseCleanupOrders(args[1:])
	case "create-staff":
		return parseCreateStaff(args[1:])
	default:
		return nil, fmt.Errorf("unknown command %q", args[0])
	}
}

func parseCleanupOrders(args []string) (command, error) {
	fs := flag.NewFlagSet("cleanup-orders", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	hours := fs.Int("hours", 24, "Fail PENDING orders older than this many hours")
	dryRun := fs.Bool("dry-run", false, "Only count matching orders")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *hours <= 0 {
		return nil, errors.New("--hours must be positive")
	}

	return func(ctx context.Context, kit toolkit, out io.Writer) error {
		count, err := kit.sweeps.Sweep(ctx, time.Duration(*hours)*time.Hour, *dryRun)
		if err != nil {
			return fmt.Errorf("cleanup orders: %w", err)
		}
		if *dryRun {
			fmt.Fprintf(out, "Would mark %d pending orders older than %d hours as FAILED\n", count, *hours)
			return nil
		}
		fmt.Fprintf(out, "Marked %d pending orders older than %d hours as FAILED\n", count, *hours)
		return nil
	}, nil
}

func parseCreateStaff(args []string) (command, error) {
	fs := flag.NewFlagSet("create-staff", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "Staff email address")
	password := fs.String("password", "", "Staff password")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(*email) == "" || *password == "" {
		return nil, errors.New("--email and --password are required")
	}

	return func(ctx context.Context, kit toolkit, out io.Writer) error {
		member, err := kit.staff.Register(ctx, *email, *password)
		if err != nil {
			return fmt.Errorf("create staff: %w", err)
		}
		fmt.Fprintf(out, "Created staff member %d (%s)\n", member.ID, member.Email)
		return nil
	}, nil
}
