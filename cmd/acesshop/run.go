package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run starts the service and blocks until a signal or an fx shutdown request.
func run(ctx context.Context, app *fx.App) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "acesshop: failed to start: %v\n", err)
		return 1
	}

	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		if sig.ExitCode != 0 {
			fmt.Fprintf(os.Stderr, "acesshop: shutdown requested with code %d\n", sig.ExitCode)
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "acesshop: failed to stop cleanly: %v\n", err)
		return 1
	}
	return 0
}
