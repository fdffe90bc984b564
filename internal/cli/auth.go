package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/eshaffer321/notes-go/pkg/notes"
)

func newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
		Long:  `Log in, log out and inspect the stored credentials.`,
	}

	cmd.AddCommand(newAuthLoginCommand())
	cmd.AddCommand(newAuthLogoutCommand())
	cmd.AddCommand(newAuthStatusCommand())
	cmd.AddCommand(newAuthRefreshCommand())
	cmd.AddCommand(newAuthRegisterCommand())
	cmd.AddCommand(newAuthProfileCommand())

	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the issued tokens",
		Long: `Authenticate with username and password.

Examples:
  # Prompt for credentials
  notesctl auth login

  # Non-interactive
  notesctl auth login --username ada --password secret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx := getCliContext(cmd)

			var err error
			if username == "" || password == "" {
				username, password, err = promptCredentials(cmd, username)
				if err != nil {
					return err
				}
			}

			if _, err := cliCtx.Client.Auth.Login(cmd.Context(), notes.Credentials{
				Username: username,
				Password: password,
			}); err != nil {
				return describeError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when empty)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when empty)")

	return cmd
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			getCliContext(cmd).Client.Auth.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether credentials are stored and when they expire",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := getCliContext(cmd).Client.Auth.Status(cmd.Context())
			if err != nil {
				return err
			}

			return render(cmd, status, func(w io.Writer) {
				if !status.Authenticated {
					fmt.Fprintln(w, "Not logged in")
					return
				}
				fmt.Fprintln(w, "Logged in")
				if status.UserID != "" {
					fmt.Fprintf(w, "User ID:\t%s\n", status.UserID)
				}
				if !status.ExpiresAt.IsZero() {
					remaining := time.Until(status.ExpiresAt)
					if status.Expired {
						fmt.Fprintf(w, "Access token:\texpired %s ago\n", formatDuration(remaining))
					} else {
						fmt.Fprintf(w, "Access token:\texpires in %s\n", formatDuration(remaining))
					}
				}
				fmt.Fprintf(w, "Refresh token:\t%t\n", status.HasRefreshToken)
			})
		},
	}
}

func newAuthRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := getCliContext(cmd).Client.Auth.RefreshToken(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Access token refreshed")
			return nil
		},
	}
}

func newAuthRegisterCommand() *cobra.Command {
	var (
		params      notes.RegisterParams
		dateOfBirth string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dateOfBirth != "" {
				dob, err := notes.ParseDate(dateOfBirth)
				if err != nil {
					return err
				}
				params.DateOfBirth = &dob
			}

			if params.Password == "" {
				var err error
				params.Username, params.Password, err = promptCredentials(cmd, params.Username)
				if err != nil {
					return err
				}
			}

			profile, err := getCliContext(cmd).Client.Auth.Register(cmd.Context(), &params)
			if err != nil {
				return describeError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %d). Run 'notesctl auth login' to sign in.\n",
				profile.Username, profile.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&params.Username, "username", "u", "", "Username")
	cmd.Flags().StringVar(&params.Email, "email", "", "Email address")
	cmd.Flags().StringVarP(&params.Password, "password", "p", "", "Password (prompted when empty)")
	cmd.Flags().StringVar(&dateOfBirth, "date-of-birth", "", "Date of birth (YYYY-MM-DD)")

	return cmd
}

func newAuthProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := getCliContext(cmd).Client.Auth.GetProfile(cmd.Context())
			if err != nil {
				return err
			}

			return render(cmd, profile, func(w io.Writer) {
				fmt.Fprintf(w, "ID:\t%d\n", profile.ID)
				fmt.Fprintf(w, "Username:\t%s\n", profile.Username)
				fmt.Fprintf(w, "Email:\t%s\n", profile.Email)
				if profile.DateOfBirth != nil {
					fmt.Fprintf(w, "Date of birth:\t%s\n", profile.DateOfBirth)
				}
				fmt.Fprintf(w, "Member since:\t%s\n", formatTime(profile.CreatedAt))
			})
		},
	}
}

// promptCredentials asks for missing credentials. The password is read
// without echo when stdin is a terminal.
func promptCredentials(cmd *cobra.Command, username string) (string, string, error) {
	in := cmd.InOrStdin()
	out := cmd.ErrOrStderr()
	reader := bufio.NewReader(in)

	if username == "" {
		fmt.Fprint(out, "Username: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	fmt.Fprint(out, "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		passwordBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		return username, string(passwordBytes), nil
	}

	line, err := reader.ReadString('\n')
	fmt.Fprintln(out)
	if err != nil && line == "" {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}
	return username, strings.TrimRight(line, "\r\n"), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// formatDuration formats a duration like "2 hours and 5 minutes"
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	units := []struct {
		size time.Duration
		name string
	}{
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
	}

	var parts []string
	for _, u := range units {
		if n := int(d / u.size); n > 0 {
			parts = append(parts, plural(n, u.name))
			d -= time.Duration(n) * u.size
		}
	}
	if len(parts) == 0 {
		return plural(int(d/time.Second), "second")
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
