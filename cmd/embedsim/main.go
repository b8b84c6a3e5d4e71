// Package main implements the embedsim CLI.
//
// embedsim embeds a list of texts through a configured provider and
// prints the pairwise similarity matrix.
//
// Usage:
//
//	# Embed lines from a file with the default local model
//	embedsim compute sentences.txt
//
//	# Embed from stdin against an Ollama server, raw inner products
//	cat sentences.txt | embedsim compute --provider ollama --model nomic-embed-text --metric dot -
//
// Configuration is loaded from ~/.config/embedsim/config.yaml and
// environment variables; flags override both. API keys can live in a
// .env file next to the working directory.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// configPath is the config file override, empty means the default path.
	configPath string
	// version information (set via ldflags during build)
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "embedsim",
	Short:   "Pairwise similarity scores for text embeddings",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/embedsim/config.yaml)")
	rootCmd.AddCommand(computeCmd)
}

func main() {
	// Keys for hosted APIs commonly live in a .env file; missing is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
