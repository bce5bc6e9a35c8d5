package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avrentops/rentalctl/internal/cli/ui"
	"github.com/avrentops/rentalctl/internal/domain"
)

func readPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no terminal available; pass --password")
	}
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func newLoginCommand(rt *runtime) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store credentials locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				var err error
				password, err = readPassword("Password: ")
				if err != nil {
					return err
				}
			}
			var user *domain.User
			err := ui.Spin("signing in", func() error {
				var err error
				user, err = rt.session.Login(cmd.Context(), email, password)
				return err
			})
			if err != nil {
				return err
			}
			return emit(rt, user, func() {
				fmt.Printf("signed in as %s (%s)\n", user.Email, user.Role)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = rt.session.Rehydrate(cmd.Context())
			rt.session.Logout(cmd.Context())
			fmt.Println("signed out")
			return nil
		},
	}
}

func newWhoamiCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(rt, cmd); err != nil {
				return err
			}
			user, err := rt.session.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			return emit(rt, user, func() {
				fmt.Printf("%s\t%s\t%s\n", user.FullName, user.Email, user.Role)
			})
		},
	}
}

func newRegisterCommand(rt *runtime) *cobra.Command {
	var reg domain.Registration
	var role string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if reg.Email == "" {
				return fmt.Errorf("--email is required")
			}
			if reg.Password == "" {
				var err error
				reg.Password, err = readPassword("Password: ")
				if err != nil {
					return err
				}
			}
			reg.Role = domain.UserRole(role)
			var user *domain.User
			err := ui.Spin("creating account", func() error {
				var err error
				user, err = rt.session.Register(cmd.Context(), reg)
				return err
			})
			if err != nil {
				return err
			}
			return emit(rt, user, func() {
				fmt.Printf("registered %s (%s)\n", user.Email, user.Role)
			})
		},
	}
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&reg.FullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&role, "role", "", "role (ADMIN, MAINTENANCE, TECHNICIEN)")
	return cmd
}
