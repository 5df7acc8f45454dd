// Command gymctl is a staff CLI for the GymEase API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gymease-service/internal/apiclient"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const usage = `usage: gymctl <command> [flags]

commands:
  login    -u <username> -p <password>   print a token for GYMCTL_TOKEN
  promos   [-search text] [-status all|active|scheduled|expired|inactive]
  preview  <promo id>
  toggle   <promo id>
  stats
  confirm  <id_transaksi>                mark a transaction paid (staff)
  check    <id_transaksi>                re-check payment status at the gateway

environment:
  GYMCTL_API_URL  API base URL (default http://localhost:8000/api)
  GYMCTL_TOKEN    token from "gymctl login"
  TIMEZONE        business time zone for promo status (default Asia/Jakarta)
`

type app struct {
	client *apiclient.Client
	sess   *apiclient.Session
	loc    *time.Location
	out    io.Writer
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	loc, err := time.LoadLocation(envOr("TIMEZONE", "Asia/Jakarta"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid TIMEZONE: %v\n", err)
		os.Exit(2)
	}

	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	a := &app{
		client: apiclient.NewClient(nil, logger),
		sess:   apiclient.NewSession(envOr("GYMCTL_API_URL", "http://localhost:8000/api"), os.Getenv("GYMCTL_TOKEN")),
		loc:    loc,
		out:    os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		if errors.Is(err, apiclient.ErrAuthExpired) {
			fmt.Fprintln(os.Stderr, "session expired: run \"gymctl login\" and export GYMCTL_TOKEN again")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
