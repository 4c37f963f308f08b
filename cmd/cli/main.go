package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	baseURL   string
	token     string
	companyID string
	timeout   time.Duration
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "erpledger-cli",
		Short:         "ERP ledger CLI tool",
		Long:          `A command line interface for posting vouchers and reading reports from the ERP ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "url", envOr("ERPLEDGER_URL", "http://localhost:8080"), "Base URL of the ledger API")
	flags.StringVar(&opts.token, "token", os.Getenv("ERPLEDGER_TOKEN"), "Bearer token")
	flags.StringVarP(&opts.companyID, "company", "c", os.Getenv("ERPLEDGER_COMPANY"), "Company ID")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		vouchersCmd(opts),
		reportsCmd(opts),
		ledgerCmd(opts),
		accountsCmd(opts),
		migrateCmd(),
		tokenCmd(),
	)
	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
