package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rosterhq/roster/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden by goreleaser via -ldflags "-X main.version=...".
var version = "dev"

var (
	serverURL string
	cfgFile   string
	insecure  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rosterctl",
	Short: "roster account management CLI",
	Long: `rosterctl is the command-line interface for a roster server.

It covers the full account lifecycle: registering, signing in, and the
staff operations for inspecting and managing user profiles.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".roster"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()

		if serverURL == "" {
			serverURL = viper.GetString("server_url")
		}
		if serverURL == "" {
			serverURL = "http://localhost:8080"
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.roster/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "roster server URL (default http://localhost:8080)")
	rootCmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "Skip TLS certificate verification (development only)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(professionalCmd)
	rootCmd.AddCommand(versionCmd)
}

// ── helpers ──────────────────────────────────────────────────────────────────

// tokenPath returns where the session token is persisted between runs.
func tokenPath() string {
	if p := viper.GetString("token_file"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".roster", "token")
}

func newClient(opts ...client.Option) (*client.Client, error) {
	if insecure {
		opts = append(opts, client.WithInsecureSkipVerify())
	}
	return client.New(serverURL, opts...)
}

// newAuthedClient builds a client from the saved session token.
func newAuthedClient() (*client.Client, error) {
	token, err := client.LoadToken(tokenPath())
	if err != nil {
		return nil, fmt.Errorf("no session found (run 'rosterctl login <email>' first): %w", err)
	}
	return newClient(client.WithBearerToken(token))
}

// renderAPIError expands a 422 field breakdown into one line per violation.
func renderAPIError(err error) error {
	apiErr, ok := client.AsAPIError(err)
	if !ok || len(apiErr.Fields) == 0 {
		return err
	}
	var b strings.Builder
	b.WriteString(apiErr.Message)
	for _, f := range apiErr.Fields {
		fmt.Fprintf(&b, "\n  - %s: %s", f.Field, f.Message)
	}
	return errors.New(b.String())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func printUser(u *client.User) {
	fmt.Printf("ID:        %s\n", u.ID)
	fmt.Printf("Email:     %s\n", u.Email)
	fmt.Printf("Nickname:  %s\n", u.Nickname)
	fmt.Printf("Role:      %s\n", u.Role)
	fmt.Printf("Pro:       %t\n", u.IsProfessional)
	if name := strings.TrimSpace(deref(u.FirstName) + " " + deref(u.LastName)); name != "" {
		fmt.Printf("Name:      %s\n", name)
	}
	if bio := deref(u.Bio); bio != "" {
		fmt.Printf("Bio:       %s\n", bio)
	}
	if pic := deref(u.ProfilePictureURL); pic != "" {
		fmt.Printf("Picture:   %s\n", pic)
	}
	if in := deref(u.LinkedinProfileURL); in != "" {
		fmt.Printf("LinkedIn:  %s\n", in)
	}
	if gh := deref(u.GithubProfileURL); gh != "" {
		fmt.Printf("GitHub:    %s\n", gh)
	}
}

func printUserJSON(u *client.User) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(u)
}

// strFlagPtr returns &value only when the flag was set on the command line,
// so an explicit --bio "" is sent to the server while an omitted flag is not.
func strFlagPtr(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func promptPassword() string {
	fmt.Print("Password: ")
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

// ── register ─────────────────────────────────────────────────────────────────

var (
	regEmail    string
	regNickname string
	regFirst    string
	regLast     string
	regBio      string
	regPicture  string
	regLinkedin string
	regGithub   string
	regRole     string
	regPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account on the roster server",
	Long: `Register creates a new account.

Leave --nickname out and the server assigns one (e.g. "swift_otter_042").
Passwords need at least 8 characters with an uppercase letter, a lowercase
letter, and a digit.

  rosterctl register --email alice@acme.com --password Sup3rsecret \
      --first-name Alice --github https://github.com/alicechen`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		password := regPassword
		if password == "" {
			password = promptPassword()
		}

		u, err := c.CreateUser(context.Background(), client.CreateUserRequest{
			Email:              regEmail,
			Nickname:           strFlagPtr(cmd, "nickname", regNickname),
			FirstName:          strFlagPtr(cmd, "first-name", regFirst),
			LastName:           strFlagPtr(cmd, "last-name", regLast),
			Bio:                strFlagPtr(cmd, "bio", regBio),
			ProfilePictureURL:  strFlagPtr(cmd, "picture", regPicture),
			LinkedinProfileURL: strFlagPtr(cmd, "linkedin", regLinkedin),
			GithubProfileURL:   strFlagPtr(cmd, "github", regGithub),
			Role:               regRole,
			Password:           password,
		})
		if err != nil {
			return renderAPIError(err)
		}

		fmt.Printf("✓ Account created\n\n")
		fmt.Printf("  ID:       %s\n", u.ID)
		fmt.Printf("  Email:    %s\n", u.Email)
		if cmd.Flags().Changed("nickname") {
			fmt.Printf("  Nickname: %s\n", u.Nickname)
		} else {
			fmt.Printf("  Nickname: %s (assigned)\n", u.Nickname)
		}
		fmt.Printf("  Role:     %s\n\n", u.Role)
		fmt.Printf("Next: rosterctl login %s\n", u.Email)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&regEmail, "email", "", "Account email address")
	registerCmd.Flags().StringVar(&regNickname, "nickname", "", "Nickname (assigned by the server when omitted)")
	registerCmd.Flags().StringVar(&regFirst, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&regLast, "last-name", "", "Last name")
	registerCmd.Flags().StringVar(&regBio, "bio", "", "Short bio")
	registerCmd.Flags().StringVar(&regPicture, "picture", "", "Profile picture URL")
	registerCmd.Flags().StringVar(&regLinkedin, "linkedin", "", "LinkedIn profile URL (https://www.linkedin.com/in/<username>)")
	registerCmd.Flags().StringVar(&regGithub, "github", "", "GitHub profile URL (https://github.com/<username>)")
	registerCmd.Flags().StringVar(&regRole, "role", "AUTHENTICATED", "Account role: ANONYMOUS, AUTHENTICATED, MODERATOR, or ADMIN")
	registerCmd.Flags().StringVar(&regPassword, "password", "", "Password (prompted when omitted)")

	_ = registerCmd.MarkFlagRequired("email")
}

// ── login ────────────────────────────────────────────────────────────────────

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and save the session token",
	Long: `Login authenticates against the roster server and saves the session
token to ~/.roster/token (override with token_file in the config) so
subsequent commands run authenticated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]

		c, err := newClient()
		if err != nil {
			return err
		}

		password := loginPassword
		if password == "" {
			password = promptPassword()
		}

		res, err := c.Login(context.Background(), email, password)
		if err != nil {
			return err
		}

		if err := client.SaveToken(tokenPath(), res.Token); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		fmt.Printf("✓ Signed in as %s (%s)\n", res.User.Nickname, res.User.Role)
		fmt.Printf("  Session saved to %s\n", tokenPath())
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted when omitted)")
}

// ── whoami ───────────────────────────────────────────────────────────────────

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAuthedClient()
		if err != nil {
			return err
		}

		u, err := c.Me(context.Background())
		if err != nil {
			return err
		}
		printUser(u)
		return nil
	},
}

// ── get ──────────────────────────────────────────────────────────────────────

var getFormat string

var getCmd = &cobra.Command{
	Use:   "get <uuid | nickname>",
	Short: "Fetch a single account (staff only)",
	Long: `Get looks an account up by UUID or nickname. Requires a MODERATOR
or ADMIN session.

  rosterctl get night-watch
  rosterctl get 550e8400-e29b-41d4-a716-446655440000 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAuthedClient()
		if err != nil {
			return err
		}

		u, err := c.GetUser(context.Background(), args[0])
		if err != nil {
			return err
		}

		if getFormat == "json" {
			return printUserJSON(u)
		}
		printUser(u)
		return nil
	},
}

func init() {
	getCmd.Flags().StringVar(&getFormat, "format", "text", "Output format: text or json")
}

// ── list ─────────────────────────────────────────────────────────────────────

var (
	listPage   int
	listSize   int
	listFormat string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts page by page (staff only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAuthedClient()
		if err != nil {
			return err
		}

		page, err := c.ListUsers(context.Background(), listPage, listSize)
		if err != nil {
			return err
		}

		if listFormat == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(page)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNICKNAME\tROLE\tPRO")
		for _, u := range page.Items {
			pro := ""
			if u.IsProfessional {
				pro = "✓"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Nickname, u.Role, pro)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		totalPages := 1
		if page.Size > 0 {
			totalPages = (page.Total + page.Size - 1) / page.Size
		}
		fmt.Printf("\npage %d of %d (%d users total)\n", page.Page, totalPages, page.Total)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number (starts at 1)")
	listCmd.Flags().IntVar(&listSize, "size", 10, "Users per page (max 100)")
	listCmd.Flags().StringVar(&listFormat, "format", "text", "Output format: text or json")
}

// ── update ───────────────────────────────────────────────────────────────────

var (
	updEmail    string
	updNickname string
	updFirst    string
	updLast     string
	updBio      string
	updPicture  string
	updLinkedin string
	updGithub   string
	updRole     string
)

var updateCmd = &cobra.Command{
	Use:   "update <uuid>",
	Short: "Apply a partial update to an account (staff only)",
	Long: `Update sends only the flags you set, so a role change alone is fine:

  rosterctl update 550e8400-... --role MODERATOR

An explicit empty value is sent as-is and validated by the server, which
is how you would notice that --nickname "" is rejected rather than cleared.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAuthedClient()
		if err != nil {
			return err
		}

		u, err := c.UpdateUser(context.Background(), args[0], client.UpdateUserRequest{
			Email:              strFlagPtr(cmd, "email", updEmail),
			Nickname:           strFlagPtr(cmd, "nickname", updNickname),
			FirstName:          strFlagPtr(cmd, "first-name", updFirst),
			LastName:           strFlagPtr(cmd, "last-name", updLast),
			Bio:                strFlagPtr(cmd, "bio", updBio),
			ProfilePictureURL:  strFlagPtr(cmd, "picture", updPicture),
			LinkedinProfileURL: strFlagPtr(cmd, "linkedin", updLinkedin),
			GithubProfileURL:   strFlagPtr(cmd, "github", updGithub),
			Role:               strFlagPtr(cmd, "role", updRole),
		})
		if err != nil {
			return renderAPIError(err)
		}

		fmt.Printf("✓ Account updated\n\n")
		printUser(u)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updEmail, "email", "", "New email address")
	updateCmd.Flags().StringVar(&updNickname, "nickname", "", "New nickname")
	updateCmd.Flags().StringVar(&updFirst, "first-name", "", "New first name")
	updateCmd.Flags().StringVar(&updLast, "last-name", "", "New last name")
	updateCmd.Flags().StringVar(&updBio, "bio", "", "New bio")
	updateCmd.Flags().StringVar(&updPicture, "picture", "", "New profile picture URL")
	updateCmd.Flags().StringVar(&updLinkedin, "linkedin", "", "New LinkedIn profile URL")
	updateCmd.Flags().StringVar(&updGithub, "github", "", "New GitHub profile URL")
	updateCmd.Flags().StringVar(&updRole, "role", "", "New role: ANONYMOUS, AUTHENTICATED, MODERATOR, or ADMIN")
}

// ── delete ───────────────────────────────────────────────────────────────────

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <uuid | nickname>",
	Short: "Delete an account (admin only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		c, err := newAuthedClient()
		if err != nil {
			return err
		}

		// Look the account up first so the prompt shows what is about to go.
		u, err := c.GetUser(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("\nAccount to delete:\n\n")
		fmt.Printf("  ID:       %s\n", u.ID)
		fmt.Printf("  Email:    %s\n", u.Email)
		fmt.Printf("  Nickname: %s\n", u.Nickname)
		fmt.Printf("  Role:     %s\n\n", u.Role)

		if !deleteForce {
			fmt.Print("This action cannot be undone. Confirm deletion? [y/N]: ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := c.DeleteUser(ctx, u.ID); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}

		fmt.Printf("✓ Account deleted: %s\n", u.Email)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip confirmation prompt")
}

// ── set-professional ─────────────────────────────────────────────────────────

var professionalCmd = &cobra.Command{
	Use:   "set-professional <uuid | nickname> <true|false>",
	Short: "Set the professional flag on an account (admin only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		professional, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", args[1])
		}

		c, err := newAuthedClient()
		if err != nil {
			return err
		}

		// The endpoint takes a UUID; resolve a nickname argument first.
		u, err := c.GetUser(ctx, args[0])
		if err != nil {
			return err
		}

		updated, err := c.SetProfessionalStatus(ctx, u.ID, professional)
		if err != nil {
			return err
		}

		fmt.Printf("✓ %s is_professional=%t\n", updated.Nickname, updated.IsProfessional)
		return nil
	},
}

// ── version ──────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rosterctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rosterctl %s (roster)\n", version)
	},
}
