package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/examdesk/examdesk/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the login on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		in := bufio.NewReader(cmd.InOrStdin())
		prompt := func(label string) (string, error) {
			fmt.Fprint(cmd.OutOrStdout(), label)
			line, err := in.ReadString('\n')
			if err != nil && line == "" {
				return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.TrimSuffix(label, ": ")), err)
			}
			return strings.TrimSpace(line), nil
		}
		if email == "" {
			if email, err = prompt("Email: "); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = readPassword(cmd, prompt); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		creds, err := d.client.Login(ctx, email, password)
		if errors.Is(err, api.ErrUnauthorized) {
			return errors.New("invalid email or password")
		}
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := d.keyring.Save(ctx, creds); err != nil {
			return err
		}

		u := creds.User
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s).\n", u.FullName, u.Role.Display())
		if !creds.ExpiresAt.IsZero() {
			fmt.Fprintf(cmd.OutOrStdout(), "Login valid until %s.\n", creds.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

// readPassword reads without echo when stdin is the terminal and falls
// back to a plain line otherwise.
func readPassword(cmd *cobra.Command, prompt func(string) (string, error)) (string, error) {
	fd := int(os.Stdin.Fd())
	if cmd.InOrStdin() != os.Stdin || !term.IsTerminal(fd) {
		return prompt("Password: ")
	}
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved login",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.keyring.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted when omitted)")
}
