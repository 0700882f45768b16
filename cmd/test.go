package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/mailkit/errs"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to MailerLite",
	Long:  `Check that the configured API key is accepted by MailerLite.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to MailerLite at %s...\n", cfg.MailerLite.URL)

	if err := mgr.Ping(cmd.Context()); err != nil {
		if errs.IsFatal(err) {
			return fmt.Errorf("API key rejected: %w", err)
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	fmt.Println("✓ Connection successful!")
	fmt.Printf("- Timeout: %s\n", cfg.MailerLite.TimeoutDuration())
	fmt.Printf("- Named filters: %d\n", len(filters.ListFilters()))
	return nil
}
