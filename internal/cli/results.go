package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veridict/internal/store"
)

// resultsCmd represents the results command
var resultsCmd = &cobra.Command{
	Use:   "results [key]",
	Short: "List stored verification results, or show one",
	Long: `Without arguments, lists stored results newest first.
With a key, prints the full stored session as JSON.

Example:
  veridict results
  veridict results 20260831_120000_the_great_wall`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	sessions, err := store.New(cfg.Store.Dir)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		session, err := sessions.Get(args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	entries, err := sessions.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no stored results")
		return nil
	}

	for _, e := range entries {
		verdict := string(e.Verdict)
		if verdict == "" {
			verdict = "-"
		}
		fmt.Printf("%-14s %-45s %s\n", verdict, e.Key, e.Claim)
	}
	return nil
}
