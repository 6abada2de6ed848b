package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rondo-mpd/rondo/internal/cli"
)

// version is stamped by the build via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.New(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "rondo: %v\n", err)
		var coded *cli.ExitError
		if errors.As(err, &coded) {
			return coded.Code
		}
		return 1
	}
	return 0
}
