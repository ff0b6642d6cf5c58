package cli

import (
	"strings"

	"github.com/mmcdole/newsdesk/internal/service"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session",
	Long: `Log in with email and password. The session token is stored per server
and reused by later commands and the interactive client.

Examples:
  newsdesk login
  newsdesk login --email reader@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account. When the server logs the new account in right away
the session is stored, otherwise run 'newsdesk login' afterwards.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the account password",
	Args:  cobra.NoArgs,
	RunE:  runPasswd,
}

var deleteAccountCmd = &cobra.Command{
	Use:   "delete-account",
	Short: "Delete the account and log out",
	Long: `Delete the account permanently. The password is always required;
--yes only skips the confirmation question.`,
	Args: cobra.NoArgs,
	RunE: runDeleteAccount,
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, passwdCmd, deleteAccountCmd)

	loginCmd.Flags().String("email", "", "account email (prompted when empty)")

	registerCmd.Flags().String("email", "", "account email (prompted when empty)")
	registerCmd.Flags().String("username", "", "display name (prompted when empty)")

	deleteAccountCmd.Flags().Bool("yes", false, "do not ask for confirmation")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ask := newPrompter(cmd)
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		if email, err = ask.Line("Email", ""); err != nil {
			return err
		}
	}
	password, err := ask.Secret("Password")
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}

	printer.Success("Logged in as %s", user.DisplayName())
	printer.PrintHints("login")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ask := newPrompter(cmd)
	in := service.RegisterInput{}
	in.Email, _ = cmd.Flags().GetString("email")
	in.Username, _ = cmd.Flags().GetString("username")

	if in.Email == "" {
		if in.Email, err = ask.Line("Email", ""); err != nil {
			return err
		}
	}
	if in.Username == "" {
		if in.Username, err = ask.Line("Username", ""); err != nil {
			return err
		}
	}
	if in.Password, err = ask.Secret("Password"); err != nil {
		return err
	}
	if in.Confirm, err = ask.Secret("Confirm password"); err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	loggedIn, err := a.session.Register(ctx, in)
	if err != nil {
		return err
	}

	if loggedIn {
		printer.Success("Account created, logged in as %s", a.session.User().DisplayName())
		return nil
	}
	printer.Success("Account created for %s", strings.TrimSpace(in.Email))
	printer.PrintHints("register")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.store.Token(); !ok {
		printer.Info("Not logged in")
		return nil
	}
	if err := a.session.Logout(); err != nil {
		return err
	}
	printer.Success("Logged out")
	printer.PrintHints("logout")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	user := a.session.User()
	printer.Field("Username", user.Username)
	printer.Field("Email", user.Email)
	printer.Field("Server", a.cfg.Server.URL)
	return nil
}

func runPasswd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	ask := newPrompter(cmd)
	current, err := ask.Secret("Current password")
	if err != nil {
		return err
	}
	next, err := ask.Secret("New password")
	if err != nil {
		return err
	}
	confirm, err := ask.Secret("Confirm new password")
	if err != nil {
		return err
	}

	if err := a.session.ChangePassword(ctx, current, next, confirm); err != nil {
		return err
	}
	printer.Success("Password changed")
	printer.PrintHints("passwd")
	return nil
}

func runDeleteAccount(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	ask := newPrompter(cmd)
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		printer.Warning("This permanently deletes %s and all bookmarks.", a.session.User().DisplayName())
		answer, err := ask.Line("Type DELETE to confirm", "")
		if err != nil {
			return err
		}
		if answer != "DELETE" {
			printer.Info("Canceled")
			return nil
		}
	}

	password, err := ask.Secret("Password")
	if err != nil {
		return err
	}
	if err := a.session.DeleteAccount(ctx, password); err != nil {
		return err
	}
	printer.Success("Account deleted")
	printer.PrintHints("delete-account")
	return nil
}
