package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopadmin/backoffice/internal/cli"
)

// @title						Backoffice API
// @version					1.0
// @description				Account, role and session API for the shop back office.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and the JWT.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}
