package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kidandcat/phantomhq/internal/cli"
	"github.com/kidandcat/phantomhq/internal/config"
	apperrors "github.com/kidandcat/phantomhq/internal/errors"
)

func main() {
	log.SetPrefix("[PHANTOM] ")
	log.SetOutput(io.Discard)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(apperrors.CodeInvalidArgument.ExitCode())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
