// Package app assembles the HTTP kernel and the command line around the
// project's route registrations. It holds no domain code: routes, event
// listeners, seeders and extra commands are injected by main.
//
//	app.New().
//	    Routes(routes.RegisterAPI).
//	    Booting(listeners.Register).
//	    Seeders(seeders.RunAll).
//	    Command("ordermgmt").
//	    Execute()
//
//	ordermgmt serve
//	ordermgmt migrate
//	ordermgmt seed
//	ordermgmt route:list
package app

import (
	"context"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/ordermgmt/pkg/router"
)

// RouteFunc mounts routes backed by db.
type RouteFunc func(r *router.Router, db *gorm.DB) error

// SeedFunc fills db with initial data.
type SeedFunc func(ctx context.Context, db *gorm.DB) error

// Application collects everything the kernel and CLI need.
type Application struct {
	routeFns []RouteFunc
	bootFns  []func()
	seed     SeedFunc
	commands []*cobra.Command
}

func New() *Application {
	return &Application{}
}

// Routes adds a route registration. Registrations run in the order added.
func (a *Application) Routes(fn RouteFunc) *Application {
	a.routeFns = append(a.routeFns, fn)
	return a
}

// Booting adds a hook that runs once before the server starts serving.
func (a *Application) Booting(fn func()) *Application {
	a.bootFns = append(a.bootFns, fn)
	return a
}

// Seeders sets the function run by the seed command.
func (a *Application) Seeders(fn SeedFunc) *Application {
	a.seed = fn
	return a
}

// Commands adds project-specific subcommands to the CLI.
func (a *Application) Commands(cmds ...*cobra.Command) *Application {
	a.commands = append(a.commands, cmds...)
	return a
}
