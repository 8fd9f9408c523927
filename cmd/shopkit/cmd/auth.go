package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xcursocr/shopkit/internal/adapter/outbound/rest"
	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

var (
	loginEmail    string
	loginPassword string

	registerName     string
	registerEmail    string
	registerPassword string
	registerUsername string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session locally",
	Long: `Sign in against the backend and persist the session.

The access and refresh tokens are written to state.json (0600) so later
commands run authenticated without signing in again. When --password is
omitted, the password is read from stdin.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Long: `Clear the local session unconditionally.

Purely local: no network call is made, so logout always succeeds even when
the backend is unreachable.`,
	RunE: runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (read from stdin when omitted)")
	_ = loginCmd.MarkFlagRequired("email")

	registerCmd.Flags().StringVar(&registerName, "name", "", "display name (required)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email (required)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "account password (read from stdin when omitted)")
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "optional username")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	password := loginPassword
	if password == "" {
		if password, err = readSecret("Password: "); err != nil {
			return err
		}
	}

	user, err := a.auth.Login(cmd.Context(), loginEmail, password)
	if err != nil {
		if errors.Is(err, rest.ErrUnauthorized) {
			return errors.New("wrong email or password")
		}
		return err
	}

	fmt.Printf("Signed in as %s (%s)\n", user.Email, user.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	a.auth.Logout()
	fmt.Println("Signed out.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	password := registerPassword
	if password == "" {
		if password, err = readSecret("Password: "); err != nil {
			return err
		}
	}

	id, err := a.auth.Register(cmd.Context(), catalog.RegisterPayload{
		Name:     registerName,
		Email:    registerEmail,
		Password: password,
		Username: registerUsername,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Account created (id %d). Run `shopkit login` to sign in.\n", id)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	if !a.sessions.Authenticated() {
		// Tokens may have survived without the user snapshot; try to
		// repopulate before giving up.
		if err := a.auth.Bootstrap(cmd.Context()); err != nil {
			return err
		}
	}
	if !a.sessions.Authenticated() {
		return errors.New("not signed in (run `shopkit login`)")
	}

	user := a.sessions.User()
	if outputJSON {
		return printPayload(user)
	}
	fmt.Printf("%s (%s)\n", user.Email, user.Role)
	if user.Name != "" {
		fmt.Printf("  Name: %s\n", user.Name)
	}
	return nil
}

// readSecret reads a line from stdin. Plain line read, not terminal
// echo suppression: shopkit is scripted as often as it is interactive.
func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
