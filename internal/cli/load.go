package cli

import (
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Roshanchokhani/rag-document-qa/internal/adapter/fs"
)

var loadCmd = &cobra.Command{
	Use:   "load [paths...]",
	Short: "Load documents into the corpus",
	Long: `Load documents from the given files or directories. Directories are
walked recursively for supported formats (.txt, .md, .pdf, .docx);
files named explicitly are loaded as-is. Documents that fail to parse
are reported and skipped, the rest are still indexed.

Examples:
  ragqa load ./docs                # Load a directory
  ragqa load report.pdf notes.txt  # Load specific files`,
	Args: cobra.MinimumNArgs(0),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	paths := args
	if len(paths) == 0 {
		paths = []string{GetRootDir()}
	}
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", p, err)
		}
		paths[i] = abs
	}

	walker := fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes)
	files, err := walker.Expand(paths)
	if err != nil {
		return fmt.Errorf("failed to scan paths: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Loading[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	engine, closeEngine, err := openEngine(cfg, cfg.Retrieval.TopK, func(string) {
		bar.Add(1)
	})
	if err != nil {
		return err
	}
	defer closeEngine()

	report, err := engine.LoadCorpus(cmd.Context(), files)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	totalChunks := 0
	for _, d := range report.Loaded {
		totalChunks += d.Chunks
	}

	fmt.Printf("\nLoad complete:\n")
	fmt.Printf("  Documents loaded: %d\n", len(report.Loaded))
	fmt.Printf("  Chunks indexed:   %d\n", totalChunks)
	if len(report.Failed) > 0 {
		fmt.Printf("  Documents failed: %d\n", len(report.Failed))
		fmt.Printf("\nFailures:\n")
		for _, f := range report.Failed {
			fmt.Printf("  - %s: %s\n", f.Source, f.Reason)
		}
	}

	return nil
}
