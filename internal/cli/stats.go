package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	engine, closeEngine, err := openEngine(cfg, cfg.Retrieval.TopK, nil)
	if err != nil {
		return err
	}
	defer closeEngine()

	stats := engine.Stats()

	if statsJSON {
		output, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Corpus statistics:\n")
	fmt.Printf("  Documents:        %d\n", stats.TotalDocs)
	fmt.Printf("  Chunks:           %d\n", stats.TotalChunks)
	fmt.Printf("  Avg chunk length: %.0f chars\n", stats.AvgChunkLen)
	return nil
}
