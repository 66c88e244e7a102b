package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexakey/nexakey/audit"
)

var (
	generateLength       int
	generateNoSymbols    bool
	generateAllowSimilar bool
	generateCount        int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random password",
	Long: `Generates a password from the platform CSPRNG with at least one
character from each enabled class. Look-alike characters (il1Lo0O) are
excluded unless --allow-similar is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := audit.GenerateOptions{
			Length:         generateLength,
			IncludeSymbols: !generateNoSymbols,
			ExcludeSimilar: !generateAllowSimilar,
		}
		for i := 0; i < generateCount; i++ {
			pw, err := audit.Generate(opts)
			if err != nil {
				return err
			}
			fmt.Println(pw)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVarP(&generateLength, "length", "l", 16, "Password length")
	generateCmd.Flags().BoolVar(&generateNoSymbols, "no-symbols", false, "Letters and digits only")
	generateCmd.Flags().BoolVar(&generateAllowSimilar, "allow-similar", false, "Keep look-alike characters")
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1, "Number of passwords to generate")
}
