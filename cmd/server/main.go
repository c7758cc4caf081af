// Command server boots the API and serves until SIGINT or SIGTERM. The
// ordermgmt binary offers the same plus the operations commands.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shashiranjanraj/ordermgmt/app/listeners"
	"github.com/shashiranjanraj/ordermgmt/app/routes"
	_ "github.com/shashiranjanraj/ordermgmt/database/migrations"
	"github.com/shashiranjanraj/ordermgmt/pkg/app"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := app.New().
		Routes(routes.RegisterAPI).
		Booting(listeners.Register).
		Serve(ctx)
	if err != nil {
		logger.Error("server stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
