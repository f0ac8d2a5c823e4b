package siglip

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/poiesic/vitrine/vision"
)

// maxImageBytes bounds how much image data is read from a listing's CDN.
const maxImageBytes = 20 << 20

// Embedder implements vision.ImageEmbedder using a remote SigLIP inference
// service.
type Embedder struct {
	config *vision.Config
	client *http.Client
	logger *slog.Logger
}

var _ vision.ImageEmbedder = (*Embedder)(nil)

// embedRequest is the wire format of an inference call.
type embedRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
	Image string `json:"image"` // base64-encoded image bytes
}

// embedResponse is the wire format of an inference result.
// The service returns the image-branch embedding only.
type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *vision.Config) (*Embedder, error) {
	if config == nil {
		config = vision.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// One client for both download and inference; connections stay warm
	// across the sequential per-record calls. Per-call deadlines come from
	// the request contexts, not the client.
	client := &http.Client{}

	return &Embedder{
		config: config,
		client: client,
		logger: slog.Default().With("component", "siglip-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns vision.ImageEmbedder interface to enforce abstraction.
func NewEmbedder(config *vision.Config) (vision.ImageEmbedder, error) {
	return newEmbedder(config)
}

// Dim returns the fixed dimension of vectors produced by this embedder.
func (e *Embedder) Dim() int {
	return e.config.Dim
}

// EmbedImage generates a vector embedding for the image at the given URL.
func (e *Embedder) EmbedImage(ctx context.Context, imageURL string) ([]float32, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("siglip: image URL is empty")
	}

	e.logger.Debug("generating embedding for image", "url", imageURL)

	imageBytes, err := e.downloadImage(ctx, imageURL)
	if err != nil {
		e.logger.Error("failed to download image", "url", imageURL, "err", err)
		return nil, fmt.Errorf("siglip: download %s: %w", imageURL, err)
	}

	vector, err := e.infer(ctx, imageBytes)
	if err != nil {
		e.logger.Error("failed to generate embedding", "url", imageURL, "err", err)
		return nil, fmt.Errorf("siglip: inference for %s: %w", imageURL, err)
	}

	if len(vector) != e.config.Dim {
		return nil, fmt.Errorf("siglip: embedding dimension mismatch: expected %d, received %d",
			e.config.Dim, len(vector))
	}

	return vector, nil
}

// downloadImage fetches the raw image bytes with a bounded timeout.
func (e *Embedder) downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image body")
	}

	return data, nil
}

// infer runs one forward pass through the remote model.
func (e *Embedder) infer(ctx context.Context, imageBytes []byte) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.InferenceTimeout)
	defer cancel()

	payload, err := json.Marshal(embedRequest{
		Model: e.config.Model,
		Text:  e.config.Prompt,
		Image: base64.StdEncoding.EncodeToString(imageBytes),
	})
	if err != nil {
		return nil, err
	}

	endpoint := e.config.Host + "/v1/embeddings/image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var result embedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("inference service error: %s", result.Error)
	}
	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("inference service returned no embedding")
	}

	return result.Embedding, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
