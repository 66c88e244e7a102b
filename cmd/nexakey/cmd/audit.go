package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexakey/nexakey/accountapi"
	"github.com/nexakey/nexakey/audit"
	"github.com/nexakey/nexakey/securestore/bboltstore"
	"github.com/nexakey/nexakey/vault"
)

var auditEmail string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run a security audit over your vault",
	Long: `Logs in to the account service, decrypts your vault locally, and
reports weak, reused, compromised, and stale passwords. Plaintext never
leaves this machine. Items that cannot be decrypted are listed and
skipped, never deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if auditEmail == "" {
			return fmt.Errorf("--email is required")
		}
		masterSecret, err := promptSecret("Master secret: ")
		if err != nil {
			return err
		}

		path, err := storePath()
		if err != nil {
			return err
		}
		store, err := bboltstore.NewFromFile(path, nil)
		if err != nil {
			return fmt.Errorf("failed to open local storage: %w", err)
		}
		defer store.Close()

		ctx := cmd.Context()
		client := accountapi.New(serverURL)
		session, err := vault.Login(ctx, client, store, auditEmail, masterSecret)
		if err != nil {
			return err
		}
		defer session.Logout(false)

		items, skipped, err := session.Items(ctx)
		if err != nil {
			return err
		}

		report := audit.AuditVault(items, time.Now())
		printReport(report)

		if len(skipped) > 0 {
			fmt.Printf("\n%d item(s) could not be decrypted and were skipped:\n", len(skipped))
			for _, s := range skipped {
				fmt.Printf("  - %s\n", s.ID)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().StringVarP(&auditEmail, "email", "e", "", "Account email")
}

func printReport(r audit.Report) {
	fmt.Printf("Security score: %d/100 (%s)\n", r.Score, r.Label)
	fmt.Printf("Passwords audited: %d (average strength %.2f)\n", r.TotalPasswords, r.AverageStrength)
	fmt.Printf("Weak: %d  Reused: %d  Compromised: %d  Stale: %d\n", r.Weak, r.Reused, r.Compromised, r.Stale)

	if len(r.Issues) > 0 {
		fmt.Println("\nIssues:")
		for _, issue := range r.Issues {
			fmt.Printf("  [%s] %s: %s\n", strings.ToUpper(issue.Severity.String()), issue.Title, issue.Description)
			if len(issue.AffectedItems) > 0 {
				fmt.Printf("         affected: %s\n", strings.Join(issue.AffectedItems, ", "))
			}
			fmt.Printf("         %s\n", issue.Recommendation)
		}
	}

	fmt.Println("\nRecommendations:")
	for _, rec := range r.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}
