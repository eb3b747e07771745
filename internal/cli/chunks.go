package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	chunksSource string
	chunksFull   bool
	chunksJSON   bool
)

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "Inspect the indexed chunks",
	Long: `List the chunks currently in the index, ordered by source document
and position. Useful for checking how documents were split and what
text the retrieval actually sees.

Examples:
  ragqa chunks                     # All chunks, truncated
  ragqa chunks --source report.pdf --full`,
	RunE: runChunks,
}

func init() {
	rootCmd.AddCommand(chunksCmd)
	chunksCmd.Flags().StringVar(&chunksSource, "source", "", "only chunks from this source document")
	chunksCmd.Flags().BoolVar(&chunksFull, "full", false, "print full chunk text instead of a preview")
	chunksCmd.Flags().BoolVar(&chunksJSON, "json", false, "output as JSON")
}

func runChunks(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	engine, closeEngine, err := openEngine(cfg, cfg.Retrieval.TopK, nil)
	if err != nil {
		return err
	}
	defer closeEngine()

	chunks := engine.Chunks()
	if chunksSource != "" {
		filtered := chunks[:0]
		for _, c := range chunks {
			if c.Source == chunksSource {
				filtered = append(filtered, c)
			}
		}
		chunks = filtered
	}

	if chunksJSON {
		output, _ := json.MarshalIndent(chunks, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(chunks) == 0 {
		fmt.Println("No chunks indexed.")
		return nil
	}

	for _, c := range chunks {
		fmt.Printf("--- %s #%d (chars %d-%d, id %s) ---\n",
			c.Source, c.Seq, c.StartOffset, c.EndOffset, c.ID)
		text := c.Text
		if !chunksFull {
			text = truncateText(text, 200)
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}
