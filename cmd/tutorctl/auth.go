package main

import (
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var user, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a name or email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			result, err := a.auth.Login(cmd.Context(), user, password)
			if err != nil {
				return err
			}
			name := result.User.Name
			if result.Profile != nil && result.Profile.FullName != "" {
				name = result.Profile.FullName
			}
			cmd.Printf("Signed in as %s (%s)\n", name, result.User.Role)
			if result.FirstLogin {
				cmd.Println("First sign-in: please change your password in the school app.")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Name or email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appFrom(cmd).auth.Logout(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			user, _ := a.state.User()
			cmd.Printf("%s <%s> %s\n", user.Name, user.Email, user.Role)
			if profile, ok := a.state.Profile(); ok {
				cmd.Printf("profile #%d %s\n", profile.ID, profile.FullName)
			}
			return nil
		},
	}
}
