// Package embeddings provides embedding generation via multiple providers.
//
// Supports FastEmbed (local ONNX), TEI and Ollama (HTTP services), and
// OpenAI-compatible APIs. Factory pattern enables provider selection at
// configuration time with automatic dimension detection for common models.
//
// The package owns no similarity logic; see internal/similarity for the
// pairwise score computation on the returned batches.
package embeddings
