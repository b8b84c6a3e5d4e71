package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/embedsim/internal/config"
	"github.com/fyrsmithlabs/embedsim/internal/embeddings"
	"github.com/fyrsmithlabs/embedsim/internal/logging"
	"github.com/fyrsmithlabs/embedsim/internal/similarity"
	"github.com/fyrsmithlabs/embedsim/internal/telemetry"
)

var (
	flagMetric   string
	flagProvider string
	flagModel    string
	flagBaseURL  string
)

var computeCmd = &cobra.Command{
	Use:   "compute [file]",
	Short: "Embed texts and print their pairwise similarity matrix",
	Long: `Embed one text per input line and print the NxN similarity matrix.

Reads from the given file, or from stdin when the argument is "-" or
omitted. Blank lines are skipped.

Examples:
  # Cosine similarity with the default local model
  embedsim compute sentences.txt

  # Raw inner products from a TEI server
  embedsim compute --provider tei --base-url http://localhost:8080 --metric dot sentences.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompute,
}

func init() {
	computeCmd.Flags().StringVar(&flagMetric, "metric", "", "similarity metric: cosine or dot (default from config)")
	computeCmd.Flags().StringVar(&flagProvider, "provider", "", "embedding provider: fastembed, tei, ollama or openai")
	computeCmd.Flags().StringVar(&flagModel, "model", "", "embedding model name")
	computeCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "embedding service URL")
}

func runCompute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)
	// Flags layer on after load, so the overridden config must be
	// re-validated before anything acts on it.
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(&logging.Config{Level: level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}
	defer logger.Sync()

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return err
	}
	// The signal-bound context is already canceled after an interrupt;
	// flush with a fresh one, bounded by Shutdown's own timeout.
	defer tel.Shutdown(context.Background())

	texts, err := readTexts(cmd, args)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("no input texts")
	}

	provider, err := embeddings.NewProvider(embeddings.ProviderConfig{
		Provider: cfg.Embedder.Provider,
		Model:    cfg.Embedder.Model,
		BaseURL:  cfg.Embedder.BaseURL,
		APIKey:   cfg.Embedder.APIKey,
		CacheDir: cfg.Embedder.CacheDir,
	})
	if err != nil {
		return err
	}
	defer provider.Close()

	logger.Info("embedding batch",
		zap.String("provider", cfg.Embedder.Provider),
		zap.String("model", cfg.Embedder.Model),
		zap.Int("texts", len(texts)))

	batch, err := provider.EmbedDocuments(ctx, texts)
	if err != nil {
		return err
	}

	logger.Info("embedded batch",
		zap.Int("count", len(batch)),
		zap.Int("dimension", len(batch[0])))

	var matrix similarity.Matrix
	switch cfg.Similarity.Metric {
	case "dot":
		matrix, err = similarity.Compute(batch)
	default:
		matrix, err = similarity.ComputeCosine(batch)
	}
	if err != nil {
		return err
	}

	return writeMatrix(cmd.OutOrStdout(), matrix)
}

// applyFlagOverrides layers command-line flags over the loaded config.
func applyFlagOverrides(cfg *config.Config) {
	if flagMetric != "" {
		cfg.Similarity.Metric = flagMetric
	}
	if flagProvider != "" {
		cfg.Embedder.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Embedder.Model = flagModel
	}
	if flagBaseURL != "" {
		cfg.Embedder.BaseURL = flagBaseURL
	}
}

// readTexts reads one text per line from the file argument, or stdin when
// the argument is "-" or absent. Blank lines are skipped.
func readTexts(cmd *cobra.Command, args []string) ([]string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return scanTexts(r)
}

func scanTexts(r io.Reader) ([]string, error) {
	var texts []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return texts, nil
}

// writeMatrix prints the matrix as tab-separated rows.
func writeMatrix(w io.Writer, m similarity.Matrix) error {
	for i := 0; i < m.Dim(); i++ {
		row := make([]string, m.Dim())
		for j := 0; j < m.Dim(); j++ {
			row[j] = fmt.Sprintf("%.4f", m.At(i, j))
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}
