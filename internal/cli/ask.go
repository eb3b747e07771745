package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
)

var (
	askQuestion string
	askTopK     int
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question against the loaded corpus",
	Long: `Embed the question and return the most similar passages from the
corpus, ranked by cosine similarity and cited back to their source
documents.

Examples:
  ragqa ask -q "What is the refund policy?"
  ragqa ask -q "deployment steps" --top-k 10 --json`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to ask (required)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	topK := cfg.Retrieval.TopK
	if askTopK > 0 {
		topK = askTopK
	}

	engine, closeEngine, err := openEngine(cfg, topK, nil)
	if err != nil {
		return err
	}
	defer closeEngine()

	resp, err := engine.Ask(cmd.Context(), askQuestion)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCorpus) {
			return fmt.Errorf("no documents loaded. Run 'ragqa load' first")
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(resp.Results) == 0 {
		fmt.Println("No relevant passages found.")
		return nil
	}

	fmt.Printf("Found %d passages for: %s\n\n", len(resp.Results), resp.Query)
	for _, r := range resp.Results {
		fmt.Printf("--- [%d] %s (chars %d-%d, score: %.3f) ---\n",
			r.Rank, r.Source, r.StartOffset, r.EndOffset, r.Score)
		fmt.Println(truncateText(r.Text, 500))
		fmt.Println()
	}

	return nil
}
