package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/erpledger/internal/adapter/http/dto"
	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/infrastructure/auth"
	"github.com/iho/erpledger/internal/infrastructure/config"
	"github.com/iho/erpledger/internal/infrastructure/logger"
	"github.com/iho/erpledger/internal/infrastructure/postgres"
)

// runAPI builds a RunE that prints the JSON returned by call.
func runAPI(opts *options, call func(cmd *cobra.Command, c *apiClient, args []string) ([]byte, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := newClient(opts)
		if err != nil {
			return err
		}
		body, err := call(cmd, c, args)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), body)
	}
}

func vouchersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vouchers",
		Short: "Voucher operations",
	}

	var (
		file   string
		submit bool
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a voucher from a JSON file (- for stdin)",
		RunE: runAPI(opts, func(cmd *cobra.Command, c *apiClient, _ []string) ([]byte, error) {
			body, err := readVoucherFile(file)
			if err != nil {
				return nil, err
			}
			if submit {
				body["submit"] = true
			}
			return c.do(cmd.Context(), http.MethodPost, c.path("vouchers"), nil, body)
		}),
	}
	createCmd.Flags().StringVarP(&file, "file", "f", "-", "Voucher JSON file")
	createCmd.Flags().BoolVar(&submit, "submit", false, "Submit the voucher right away")

	var (
		types, statuses, from, to string
		limit, offset             int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List vouchers",
		RunE: runAPI(opts, func(cmd *cobra.Command, c *apiClient, _ []string) ([]byte, error) {
			q := url.Values{}
			setQuery(q, "type", types)
			setQuery(q, "status", statuses)
			setQuery(q, "from", from)
			setQuery(q, "to", to)
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))
			return c.do(cmd.Context(), http.MethodGet, c.path("vouchers"), q, nil)
		}),
	}
	listCmd.Flags().StringVar(&types, "type", "", "Comma separated voucher types")
	listCmd.Flags().StringVar(&statuses, "status", "", "Comma separated statuses")
	listCmd.Flags().StringVar(&from, "from", "", "From date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&to, "to", "", "To date (YYYY-MM-DD)")
	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a voucher",
		Args:  cobra.ExactArgs(1),
		RunE: runAPI(opts, func(cmd *cobra.Command, c *apiClient, args []string) ([]byte, error) {
			return c.do(cmd.Context(), http.MethodGet, c.path("vouchers", args[0]), nil, nil)
		}),
	}

	cmd.AddCommand(createCmd, listCmd, getCmd)
	for _, action := range []string{"submit", "approve", "lock", "cancel"} {
		cmd.AddCommand(transitionCmd(opts, action))
	}
	cmd.AddCommand(reverseCmd(opts))
	return cmd
}

func transitionCmd(opts *options, action string) *cobra.Command {
	var (
		version int64
		reason  string
	)
	cmd := &cobra.Command{
		Use:   action + " <id>",
		Short: strings.ToUpper(action[:1]) + action[1:] + " a voucher",
		Args:  cobra.ExactArgs(1),
		RunE: runAPI(opts, func(cmd *cobra.Command, c *apiClient, args []string) ([]byte, error) {
			body := dto.TransitionRequest{Version: version, Reason: reason}
			return c.do(cmd.Context(), http.MethodPost, c.path("vouchers", args[0], action), nil, body)
		}),
	}
	cmd.Flags().Int64Var(&version, "version", 0, "Expected voucher version (0 skips the check)")
	if action == "cancel" {
		cmd.Flags().StringVar(&reason, "reason", "", "Cancellation reason")
	}
	return cmd
}

func reverseCmd(opts *options) *cobra.Command {
	var date, reason string
	cmd := &cobra.Command{
		Use:   "reverse <id>",
		Short: "Create a reversal of a posted voucher",
		Args:  cobra.ExactArgs(1),
		RunE: runAPI(opts, func(cmd *cobra.Command, c *apiClient, args []string) ([]byte, error) {
			body := dto.ReverseVoucherRequest{Date: date, Reason: reason}
			return c.do(cmd.Context(), http.MethodPost, c.path("vouchers", args[0], "reverse"), nil, body)
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "Reversal date (YYYY-MM-DD), defaults to the original date")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded on the reversal")
	return cmd
}

func reportsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Financial reports",
	}

	var asOf string
	tbCmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Trial balance in base currency",
		RunE: runAPI(opts, func(cmd *cobra.Command, c *apiClient, _ []string) ([]byte, error) {
			q := url.Values{}
			setQuery(q, "as_of", asOf)
			return c.do(cmd.Context(), http.MethodGet, c.path("reports", "trial-balance"), q, nil)
		}),
	}
	tbCmd.Flags().StringVar(&asOf, "as-of", "", "Report date (YYYY-MM-DD), defaults to today")

	cmd.AddCommand(tbCmd, ledgerReportCmd(opts, "general-ledger", "General ledger"), ledgerReportCmd(opts, "journal", "Journal grouped by voucher"))
	return cmd
}

func ledgerReportCmd(opts *options, name, short string) *cobra.Command {
	var (
		accounts, voucherID, voucherTypes, from, to string
		limit, offset                               int
	)
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: runAPI(opts, func(cmd *cobra.Command, c *apiClient, _ []string) ([]byte, error) {
			q := url.Values{}
			setQuery(q, "account_id", accounts)
			setQuery(q, "voucher_id", voucherID)
			setQuery(q, "voucher_type", voucherTypes)
			setQuery(q, "from", from)
			setQuery(q, "to", to)
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))
			return c.do(cmd.Context(), http.MethodGet, c.path("reports", name), q, nil)
		}),
	}
	cmd.Flags().StringVar(&accounts, "account", "", "Comma separated account IDs")
	cmd.Flags().StringVar(&voucherID, "voucher", "", "Voucher ID")
	cmd.Flags().StringVar(&voucherTypes, "voucher-type", "", "Comma separated voucher types")
	cmd.Flags().StringVar(&from, "from", "", "From date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "To date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	return cmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger checks",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that company-wide debits equal credits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			body, err := c.do(cmd.Context(), http.MethodGet, c.path("ledger", "consistency"), nil, nil)
			if err != nil {
				return err
			}

			var result dto.ConsistencyResponse
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			if !result.Consistent {
				return fmt.Errorf("consistency check FAILED: %s", result.Detail)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Consistency check PASSED")
			return nil
		},
	}

	integrityCmd := &cobra.Command{
		Use:   "integrity",
		Short: "Verify posted vouchers against their ledger lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			body, err := c.do(cmd.Context(), http.MethodGet, c.path("ledger", "integrity"), nil, nil)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), body); err != nil {
				return err
			}

			var report dto.IntegrityResponse
			if err := json.Unmarshal(body, &report); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			if !report.OK {
				return fmt.Errorf("integrity check FAILED: %d issue(s)", len(report.Issues))
			}
			return nil
		},
	}

	cmd.AddCommand(consistencyCmd, integrityCmd)
	return cmd
}

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account lookups",
	}

	var currency string
	postabilityCmd := &cobra.Command{
		Use:   "postability <code>",
		Short: "Check whether an account accepts postings in a currency",
		Args:  cobra.ExactArgs(1),
		RunE: runAPI(opts, func(cmd *cobra.Command, c *apiClient, args []string) ([]byte, error) {
			q := url.Values{"currency": {currency}}
			return c.do(cmd.Context(), http.MethodGet, c.path("accounts", args[0], "postability"), q, nil)
		}),
	}
	postabilityCmd.Flags().StringVar(&currency, "currency", "", "Currency code")
	_ = postabilityCmd.MarkFlagRequired("currency")

	getCmd := &cobra.Command{
		Use:   "get <code>",
		Short: "Show an account by chart code",
		Args:  cobra.ExactArgs(1),
		RunE: runAPI(opts, func(cmd *cobra.Command, c *apiClient, args []string) ([]byte, error) {
			return c.do(cmd.Context(), http.MethodGet, c.path("accounts", args[0]), nil, nil)
		}),
	}

	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the chart of accounts",
		RunE: runAPI(opts, func(cmd *cobra.Command, c *apiClient, _ []string) ([]byte, error) {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))
			return c.do(cmd.Context(), http.MethodGet, c.path("accounts"), q, nil)
		}),
	}
	listCmd.Flags().IntVar(&limit, "limit", 100, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	cmd.AddCommand(getCmd, listCmd, postabilityCmd)
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations (uses DATABASE_URL and MIGRATIONS_PATH)",
	}

	newMigrator := func() (*postgres.Migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		log := logger.NewWithWriter(logger.Config{Level: cfg.LogLevel, Format: "console"}, os.Stderr)
		return postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log), nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Up()
		},
	}

	downCmd := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid steps %q: %w", args[0], err)
				}
				steps = n
			}
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Down(steps)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %v\n", version, dirty)
			return nil
		},
	}

	cmd.AddCommand(upCmd, downCmd, versionCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		userID, email, role, companies, secret string
		ttl                                    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return fmt.Errorf("secret is required (--secret or JWT_SECRET)")
			}
			r := domain.Role(role)
			if !r.IsValid() {
				return fmt.Errorf("unknown role %q", role)
			}
			user := &domain.User{ID: userID, Email: email, Role: r}
			if companies != "" {
				user.CompanyIDs = strings.Split(companies, ",")
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleViewer), "Role: admin, approver, accountant or viewer")
	cmd.Flags().StringVar(&companies, "companies", "", "Comma separated company IDs the token is scoped to")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func setQuery(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func readVoucherFile(path string) (map[string]any, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read voucher: %w", err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("voucher file is not valid JSON: %w", err)
	}
	return body, nil
}
