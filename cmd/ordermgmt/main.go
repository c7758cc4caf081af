// Command ordermgmt is the service binary and its operations CLI.
package main

import (
	"github.com/shashiranjanraj/ordermgmt/app/listeners"
	"github.com/shashiranjanraj/ordermgmt/app/routes"
	_ "github.com/shashiranjanraj/ordermgmt/database/migrations"
	"github.com/shashiranjanraj/ordermgmt/database/seeders"
	"github.com/shashiranjanraj/ordermgmt/pkg/app"
)

func main() {
	root := app.New().
		Routes(routes.RegisterAPI).
		Booting(listeners.Register).
		Seeders(seeders.RunAll).
		Commands(userCreateCmd()).
		Command("ordermgmt")

	app.Main(root)
}
