package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/magicmirror/magic-mirror/internal/catalog/postgres"
	"github.com/magicmirror/magic-mirror/internal/config"
	"github.com/magicmirror/magic-mirror/internal/recognition"
	"github.com/spf13/cobra"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize [embedding-file]",
	Short: "Match an embedding against the enrolled catalog",
	Long: `Match a single face embedding against the enrolled catalog and print
the result as JSON. The embedding is read as a JSON array of numbers from the
given file, or from stdin when the argument is omitted or "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().Float64("threshold", -1, "Match threshold in [0,1] (default: configured value)")
}

func readEmbedding(args []string) ([]float32, error) {
	var data []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding: %w", err)
	}

	var embedding []float32
	if err := json.Unmarshal(data, &embedding); err != nil {
		return nil, fmt.Errorf("failed to parse embedding: %w", err)
	}
	return embedding, nil
}

func runRecognize(cmd *cobra.Command, args []string) error {
	embedding, err := readEmbedding(args)
	if err != nil {
		return err
	}

	cfg := config.Load()
	threshold := mustGetFloat64(cmd, "threshold")
	if threshold < 0 {
		threshold = cfg.Recognition.MatchThreshold
	}

	ctx := context.Background()
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	engine := recognition.NewEngine(cfg.Recognition.EmbeddingDim, cfg.Recognition.MinSamples)
	if err := engine.Validate(embedding, threshold); err != nil {
		return err
	}

	profiles, err := postgres.NewProfileRepository(pool).Candidates(ctx, embedding, 100)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	candidates := make([]recognition.Candidate, 0, len(profiles))
	for _, p := range profiles {
		candidates = append(candidates, recognition.Candidate{ID: p.ID, Name: p.Name, Embedding: p.Embedding})
	}

	match, err := engine.Recognize(embedding, candidates, threshold)
	if err != nil {
		return err
	}

	out := map[string]any{"match": nil, "threshold": threshold}
	if match != nil {
		out["match"] = map[string]any{
			"profile_id": match.ProfileID,
			"name":       match.Name,
			"distance":   match.Distance,
			"confidence": match.Confidence,
		}
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
