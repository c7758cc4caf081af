package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/ordermgmt/app/repositories"
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/pkg/app"
	"github.com/shashiranjanraj/ordermgmt/pkg/database"
)

// ordermgmt user:create --username alice --password secret123 --role USER
func userCreateCmd() *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "user:create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Boot(); err != nil {
				return err
			}
			defer app.Shutdown()

			auth := services.NewAuthService(repositories.NewUserRepository(database.DB))
			user, err := auth.Register(cmd.Context(), username, password, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", user.Role, user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "plaintext password, hashed before storing")
	cmd.Flags().StringVar(&role, "role", "USER", "ADMIN or USER")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
