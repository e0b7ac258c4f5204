package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bookbazaar/internal/model"
)

var (
	authEmail    string
	authPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a marketplace account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := gatherCredentials()
		if err != nil {
			return err
		}
		return current.session.Register(cmd.Context(), email, password)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to an existing account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := gatherCredentials()
		if err != nil {
			return err
		}
		return current.session.Login(cmd.Context(), email, password)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.session.Logout(cmd.Context())
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account, if any",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Silent probe: a failure here just means "not signed in".
		_ = current.session.LoadCurrentUser(cmd.Context())

		state := current.session.Snapshot()
		if !state.IsAuthenticated {
			fmt.Println("Not signed in.")
			return nil
		}
		fmt.Printf("Signed in as %s\n", state.AuthUser.Email)
		return nil
	},
}

// gatherCredentials reads email/password from flags or prompts. Validation
// happens here, before any store operation runs; failures go to the sink
// and never touch store state.
func gatherCredentials() (string, string, error) {
	email := strings.TrimSpace(authEmail)
	if email == "" {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	password := authPassword
	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	}

	if email == "" || password == "" {
		current.sink.Error(model.ErrMissingCredentials.Error())
		return "", "", model.ErrMissingCredentials
	}
	return email, password, nil
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (prompted when omitted)")
	}
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
}
