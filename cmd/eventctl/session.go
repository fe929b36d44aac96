package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"evently/internal/auth"
)

func loginCommand(c *cli) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := c.secret("Password")
			if err != nil {
				return err
			}
			if _, err := c.app.Session.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			return c.printUser(c.app.Session.User())
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func registerCommand(c *cli) *cobra.Command {
	var req auth.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.Password, err = c.secret("Password"); err != nil {
				return err
			}
			if req.ConfirmPassword, err = c.secret("Confirm password"); err != nil {
				return err
			}
			if _, err := c.app.Session.Register(cmd.Context(), &req); err != nil {
				return err
			}
			return c.printUser(c.app.Session.User())
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "phone number")
	cmd.Flags().StringVar(&req.Role, "role", "", "ATTENDEE, ORGANIZER or STAFF")
	return cmd
}

func logoutCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Session.Logout(cmd.Context())
		},
	}
}

func whoamiCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			user := c.app.Session.User()
			if user == nil {
				return errors.New("not signed in")
			}
			return c.printUser(user)
		},
	}
}

func profileCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your profile",
	}

	show := &cobra.Command{
		Use:     "show",
		Short:   "Reload the profile from the server",
		Args:    cobra.NoArgs,
		PreRunE: c.requireRoles(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.app.Session.RefreshProfile(cmd.Context())
			if err != nil {
				return err
			}
			return c.printUser(user)
		},
	}

	var firstName, lastName, phone string
	update := &cobra.Command{
		Use:     "update",
		Short:   "Change profile fields; only the flags given are sent",
		Args:    cobra.NoArgs,
		PreRunE: c.requireRoles(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			changes := map[string]any{}
			if cmd.Flags().Changed("first-name") {
				changes["firstName"] = firstName
			}
			if cmd.Flags().Changed("last-name") {
				changes["lastName"] = lastName
			}
			if cmd.Flags().Changed("phone") {
				changes["phoneNumber"] = phone
			}
			if len(changes) == 0 {
				return errors.New("nothing to update")
			}

			user, err := c.app.Session.UpdateProfile(cmd.Context(), changes)
			if err != nil {
				return err
			}
			return c.printUser(user)
		},
	}
	update.Flags().StringVar(&firstName, "first-name", "", "first name")
	update.Flags().StringVar(&lastName, "last-name", "", "last name")
	update.Flags().StringVar(&phone, "phone", "", "phone number")

	cmd.AddCommand(show, update)
	return cmd
}

func passwordCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "password",
		Short:   "Change your password",
		Args:    cobra.NoArgs,
		PreRunE: c.requireRoles(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, err := c.secret("Current password")
			if err != nil {
				return err
			}
			next, err := c.secret("New password")
			if err != nil {
				return err
			}
			if err := c.app.Session.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Password changed")
			return nil
		},
	}
}

// userView is the compact shape printed by whoami and profile show
type userView struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

func (c *cli) printUser(user *auth.UserProfile) error {
	if user == nil {
		return errors.New("no user in session")
	}
	view := userView{ID: user.ID, Email: user.Email, Name: user.FullName(), Role: user.Role}
	return c.print(view, func(w io.Writer) {
		fmt.Fprintf(w, "EMAIL\tNAME\tROLE\n")
		fmt.Fprintf(w, "%s\t%s\t%s\n", view.Email, view.Name, view.Role)
	})
}
