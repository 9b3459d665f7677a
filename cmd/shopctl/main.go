package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, err := parseCommand(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "shopctl: %v\n%s", err, usage)
		os.Exit(2)
	}

	kit, closeFn, err := connect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shopctl: %v\n", err)
		os.Exit(1)
	}
	defer closeFn()

	if err := cmd(ctx, kit, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "shopctl: %v\n", err)
		closeFn()
		os.Exit(1)
	}
}
