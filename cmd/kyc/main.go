package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/aussiebroadwan/kyc/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.NewRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, app.ErrReported) {
			fmt.Fprintf(os.Stderr, "kyc: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
