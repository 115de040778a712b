package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/magicmirror/magic-mirror/internal/catalog"
	"github.com/magicmirror/magic-mirror/internal/catalog/postgres"
	"github.com/magicmirror/magic-mirror/internal/config"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage enrolled profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrolled profiles",
	RunE:  runProfilesList,
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <profile-id>",
	Short: "Delete a profile and its sightings",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesDelete,
}

var profilesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all profiles with embeddings to a JSON file",
	RunE:  runProfilesExport,
}

var profilesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import profiles from a JSON export file",
	RunE:  runProfilesImport,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
	profilesCmd.AddCommand(profilesExportCmd)
	profilesCmd.AddCommand(profilesImportCmd)

	profilesExportCmd.Flags().String("output", "profiles.json", "Output file path")
	profilesImportCmd.Flags().String("input", "profiles.json", "Input file path")
	profilesImportCmd.Flags().Bool("skip-existing", true, "Skip profiles whose name is already enrolled")
}

// exportedProfile is the on-disk form of a profile, embeddings included. Used
// for backup and for moving a household catalog between mirrors.
type exportedProfile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Contact     string    `json:"contact,omitempty"`
	Embedding   []float32 `json:"embedding"`
	SampleCount int       `json:"sample_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func profilesProgressBar(count int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(count,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("profiles"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	profiles, err := postgres.NewProfileRepository(pool).List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if len(profiles) == 0 {
		fmt.Println("No profiles enrolled")
		return nil
	}

	fmt.Printf("%-38s %-24s %-8s %s\n", "ID", "NAME", "SAMPLES", "ENROLLED")
	for _, p := range profiles {
		fmt.Printf("%-38s %-24s %-8d %s\n", p.ID, p.Name, p.SampleCount, p.CreatedAt.Format(time.RFC3339))
	}
	fmt.Printf("\n%d profiles\n", len(profiles))
	return nil
}

func runProfilesDelete(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgres.NewProfileRepository(pool)
	profile, err := repo.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("profile %s not found", args[0])
	}

	if err := repo.Delete(ctx, profile.ID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	fmt.Printf("Deleted profile %s (%s)\n", profile.ID, profile.Name)
	return nil
}

func runProfilesExport(cmd *cobra.Command, args []string) error {
	output := mustGetString(cmd, "output")
	cfg := config.Load()
	ctx := context.Background()

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	profiles, err := postgres.NewProfileRepository(pool).List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	bar := profilesProgressBar(len(profiles), "Exporting profiles")
	exported := make([]exportedProfile, 0, len(profiles))
	for _, p := range profiles {
		exported = append(exported, exportedProfile{
			ID:          p.ID,
			Name:        p.Name,
			Contact:     p.Contact,
			Embedding:   p.Embedding,
			SampleCount: p.SampleCount,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
		bar.Add(1)
	}

	data, err := json.MarshalIndent(exported, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	if err := os.WriteFile(output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Printf("\nExported %d profiles to %s\n", len(exported), output)
	return nil
}

func runProfilesImport(cmd *cobra.Command, args []string) error {
	input := mustGetString(cmd, "input")
	skipExisting := mustGetBool(cmd, "skip-existing")
	cfg := config.Load()
	ctx := context.Background()

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	var exported []exportedProfile
	if err := json.Unmarshal(data, &exported); err != nil {
		return fmt.Errorf("failed to parse %s: %w", input, err)
	}

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgres.NewProfileRepository(pool)
	bar := profilesProgressBar(len(exported), "Importing profiles")

	var imported, skipped int
	for _, e := range exported {
		if len(e.Embedding) != cfg.Recognition.EmbeddingDim {
			bar.Add(1)
			fmt.Printf("\nSkipping %s: embedding has %d dimensions, expected %d\n",
				e.Name, len(e.Embedding), cfg.Recognition.EmbeddingDim)
			skipped++
			continue
		}

		if skipExisting {
			existing, err := repo.GetByName(ctx, e.Name)
			if err != nil {
				return fmt.Errorf("failed to check for existing profile: %w", err)
			}
			if existing != nil {
				bar.Add(1)
				skipped++
				continue
			}
		}

		err := repo.Create(ctx, &catalog.Profile{
			ID:          e.ID,
			Name:        e.Name,
			Contact:     e.Contact,
			Embedding:   e.Embedding,
			SampleCount: e.SampleCount,
		})
		if err != nil {
			return fmt.Errorf("failed to import profile %s: %w", e.Name, err)
		}
		imported++
		bar.Add(1)
	}

	fmt.Printf("\nImported %d profiles (%d skipped)\n", imported, skipped)
	return nil
}
