package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "magic-mirror",
	Short: "Face enrollment and recognition backend for a smart mirror",
	Long: `Magic Mirror is the backend for a smart mirror display. It enrolls
household members from webcam face embeddings, recognizes who is standing in
front of the mirror, and produces the greeting line the display shows.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
