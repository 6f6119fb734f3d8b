package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veridict/internal/model"
	"github.com/ppiankov/veridict/internal/pipeline"
)

var (
	verifyTimeout time.Duration
	verifyJSON    bool
	llmProvider   string
	llmModel      string
	queryBudget   int
	workers       int
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claim>",
	Short: "Verify a claim against live search evidence",
	Long: `Verify runs the full pipeline for one claim:
- Classify the claim (domain, type, complexity, urgency)
- Decompose it into atomic sub-claims with dependencies
- Plan and execute targeted search queries concurrently
- Weight evidence by source credibility
- Synthesize per-claim and overall verdicts

The result is stored under the configured results directory.

Example:
  veridict verify "The Great Wall of China is visible from space"
  veridict verify "..." --json
  veridict verify "..." --llm-provider anthropic --workers 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 5*time.Minute, "overall verification timeout")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "print the full session as JSON")
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	verifyCmd.Flags().IntVar(&queryBudget, "queries", 0, "search query budget (default 10)")
	verifyCmd.Flags().IntVar(&workers, "workers", 0, "concurrent search workers (default 3)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	claim := strings.TrimSpace(strings.Join(args, " "))

	cfg := loadConfig()
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		// Re-resolve the key for the overridden provider
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if queryBudget > 0 {
		cfg.Pipeline.QueryBudget = queryBudget
	}
	if workers > 0 {
		cfg.Pipeline.Workers = workers
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, _, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	session, err := p.Verify(ctx, claim)
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) && session != nil {
			fmt.Fprintf(os.Stderr, "verification failed at stage %s: %v\n", stageErr.Stage, stageErr.Err)
			if session.ResultKey != "" {
				fmt.Fprintf(os.Stderr, "partial session stored as %s\n", session.ResultKey)
			}
		}
		return err
	}

	if verifyJSON {
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printSession(session)
	return nil
}

// printSession renders a human-readable result summary
func printSession(session *model.Session) {
	eval := session.Evaluation

	fmt.Printf("Claim:   %s\n", session.Claim.Text)
	if c := session.Claim.Classification; c != nil {
		fmt.Printf("Class:   %s / %s / %s (urgency %s)\n", c.Domain, c.ClaimType, c.Complexity, c.Urgency)
	}
	fmt.Printf("Verdict: %s (confidence %.2f)\n", eval.OverallVerdict, eval.Confidence)
	if session.Incomplete {
		fmt.Println("Note:    verification was cancelled before completion")
	}
	fmt.Println()
	fmt.Println(eval.Summary)
	fmt.Println()

	if len(eval.SubClaims) > 0 {
		fmt.Println("Sub-claims:")
		for _, sub := range eval.SubClaims {
			fmt.Printf("  [%s] %s (%.2f for / %.2f against)\n",
				sub.Verdict, sub.Statement, sub.SupportingWeight, sub.RefutingWeight)
		}
		fmt.Println()
	}

	if len(eval.KeyFindings) > 0 {
		fmt.Println("Key findings:")
		for _, f := range eval.KeyFindings {
			fmt.Printf("  - %s\n", f)
		}
		fmt.Println()
	}

	if eval.Narrative != "" {
		fmt.Println(eval.Narrative)
		fmt.Println()
	}

	if session.ResultKey != "" {
		fmt.Printf("Stored as: %s\n", session.ResultKey)
	}
}
