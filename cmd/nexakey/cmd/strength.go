package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nexakey/nexakey/audit"
)

var strengthJSONOutput bool

var strengthCmd = &cobra.Command{
	Use:   "strength [password]",
	Short: "Score a password's strength",
	Long: `Analyzes a candidate password and reports its score, strength label,
detected issues, and recommendations. With no argument the password is
read from the terminal without echo, so it does not land in shell history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var candidate string
		if len(args) == 1 {
			candidate = args[0]
		} else {
			var err error
			candidate, err = promptSecret("Password to analyze: ")
			if err != nil {
				return err
			}
		}

		analysis := audit.Analyze(candidate)
		if strengthJSONOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		}
		printAnalysis(analysis)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(strengthCmd)
	strengthCmd.Flags().BoolVar(&strengthJSONOutput, "json", false, "Output results as JSON")
}

func printAnalysis(a audit.Analysis) {
	fmt.Printf("Score:      %d/7\n", a.Score)
	fmt.Printf("Strength:   %s\n", a.Strength)
	if a.CrackTime != "" {
		fmt.Printf("Crack time: %s (%.1f bits of entropy)\n", a.CrackTime, a.EntropyBits)
	}
	if a.Compromised {
		fmt.Println("\nWARNING: this password appears in public breach lists.")
	}
	if len(a.Issues) > 0 {
		fmt.Println("\nIssues:")
		for _, issue := range a.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}
	if len(a.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range a.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
}

// promptSecret reads a line from the terminal with echo disabled.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return string(secret), nil
}
