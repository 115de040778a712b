package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magicmirror/magic-mirror/internal/catalog/postgres"
	"github.com/magicmirror/magic-mirror/internal/config"
	"github.com/magicmirror/magic-mirror/internal/descriptor"
	"github.com/magicmirror/magic-mirror/internal/recognition"
	"github.com/magicmirror/magic-mirror/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Magic Mirror web server.
The server exposes the enrollment, recognition, sighting and descriptor-proxy
API the mirror display talks to.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// initHNSW builds or loads the in-memory index over the enrolled catalog.
func initHNSW(ctx context.Context, profileRepo *postgres.ProfileRepository, indexPath string) {
	if indexPath != "" {
		fmt.Printf("Loading HNSW index from %s...\n", indexPath)
	} else {
		fmt.Printf("Building in-memory HNSW index over the catalog...\n")
	}
	if err := profileRepo.EnableHNSW(ctx, indexPath); err != nil {
		fmt.Printf("Warning: failed to build HNSW index: %v\n", err)
		fmt.Printf("Recognition will scan the full catalog from PostgreSQL\n")
	} else if indexPath != "" {
		fmt.Printf("HNSW index ready with %d profiles (persisted to %s)\n", profileRepo.HNSWCount(), indexPath)
	} else {
		fmt.Printf("HNSW index built with %d profiles (in-memory only)\n", profileRepo.HNSWCount())
	}
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	fmt.Printf("Connecting to PostgreSQL database...\n")
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	profileRepo := postgres.NewProfileRepository(pool)
	sightingRepo := postgres.NewSightingRepository(pool)
	initHNSW(ctx, profileRepo, cfg.Database.HNSWIndexPath)

	engine := recognition.NewEngine(cfg.Recognition.EmbeddingDim, cfg.Recognition.MinSamples)
	detector := descriptor.NewClient(cfg.Descriptor.URL, cfg.Descriptor.MaxFrameSize)

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, port, host, web.Deps{
		Engine:     engine,
		Profiles:   profileRepo,
		Candidates: profileRepo,
		Sightings:  sightingRepo,
		Greeter:    buildGreeter(ctx, cfg),
		Detector:   detector,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		if err := profileRepo.SaveHNSWIndex(); err != nil {
			fmt.Printf("Warning: failed to save HNSW index: %v\n", err)
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Magic Mirror API on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
