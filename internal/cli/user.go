package cli

import (
	"fmt"

	"github.com/blogicum/internal/service"
	"github.com/spf13/cobra"
)

func (a *app) newCreateUserCommand() *cobra.Command {
	var (
		username string
		password string
		email    string
	)

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, err := a.open()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			users := service.NewUserService(gdb)
			user, err := users.Register(service.RegistrationInput{
				Username:        username,
				Password:        password,
				PasswordConfirm: password,
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			if email != "" {
				if _, err := users.UpdateProfile(user.ID, service.ProfileInput{Email: email}); err != nil {
					return fmt.Errorf("set email: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 8 characters (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
