package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Roshanchokhani/rag-document-qa/config"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check configuration and embedding service availability",
	Long: `Run a quick health check: configuration validity, embedding API
credentials, endpoint reachability and index state. Exits non-zero
when any check fails.`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	healthy := true

	check := func(name string, ok bool, detail string) {
		status := "ok"
		if !ok {
			status = "FAIL"
			healthy = false
		}
		fmt.Printf("  %-22s %-4s %s\n", name, status, detail)
	}

	fmt.Println("Health check:")

	// Config was validated in the pre-run hook; reaching here means it
	// parsed and passed.
	check("config", true, fmt.Sprintf("provider=%s model=%s", cfg.Embedding.Provider, cfg.Embedding.Model))

	if cfg.Embedding.Provider == "openai" {
		key := os.Getenv(cfg.Embedding.APIKeyEnv)
		check("api key", key != "", fmt.Sprintf("env %s", cfg.Embedding.APIKeyEnv))

		reachable, detail := probeEndpoint(cfg.Embedding.Endpoint, key)
		check("endpoint", reachable, detail)
	}

	dbPath := config.IndexDBPath(GetRootDir())
	if _, err := os.Stat(dbPath); err != nil {
		check("index", true, "not created yet (run 'ragqa load')")
	} else {
		engine, closeEngine, err := openEngine(cfg, cfg.Retrieval.TopK, nil)
		if err != nil {
			check("index", false, err.Error())
		} else {
			stats := engine.Stats()
			closeEngine()
			check("index", true, fmt.Sprintf("%d docs, %d chunks", stats.TotalDocs, stats.TotalChunks))
		}
	}

	if !healthy {
		return fmt.Errorf("health check failed")
	}
	fmt.Println("\nAll checks passed.")
	return nil
}

// probeEndpoint verifies the embeddings API answers HTTP at all. Any
// response counts as reachable; a 401 additionally signals a bad key.
func probeEndpoint(endpoint, key string) (bool, string) {
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequest(http.MethodGet, endpoint+"/models", nil)
	if err != nil {
		return false, err.Error()
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Sprintf("unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return false, fmt.Sprintf("reachable but rejected credentials (%d)", resp.StatusCode)
	}
	return true, fmt.Sprintf("reachable (%d)", resp.StatusCode)
}
