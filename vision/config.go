// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package vision

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for visual embedding providers.
type Config struct {
	// Host is the base URL of the embedding inference service.
	// Example: "http://localhost:9400" for a local SigLIP server
	Host string

	// Model is the model identifier loaded by the inference service.
	// Example: "google/siglip-base-patch16-384"
	Model string

	// Prompt is the fixed placeholder text paired with every image.
	// The model architecture requires a text input alongside the image even
	// though only the image branch's output is used.
	Prompt string

	// Dim is the dimension of vectors produced by the model.
	// Example: 768 for siglip-base-patch16-384
	Dim int

	// DownloadTimeout bounds fetching the image bytes.
	DownloadTimeout time.Duration

	// InferenceTimeout bounds the forward pass request.
	InferenceTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the inference service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithPrompt sets the placeholder text prompt paired with each image.
func WithPrompt(prompt string) ConfigOption {
	return func(c *Config) {
		c.Prompt = prompt
	}
}

// WithDim sets the expected embedding dimension.
func WithDim(dim int) ConfigOption {
	return func(c *Config) {
		c.Dim = dim
	}
}

// WithDownloadTimeout sets the image download timeout.
func WithDownloadTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.DownloadTimeout = timeout
	}
}

// WithInferenceTimeout sets the inference request timeout.
func WithInferenceTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.InferenceTimeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// SigLIP-style inference server.
func DefaultConfig() *Config {
	return &Config{
		Host:             "http://localhost:9400",
		Model:            "google/siglip-base-patch16-384",
		Prompt:           "a photo of a fashion item",
		Dim:              768,
		DownloadTimeout:  10 * time.Second,
		InferenceTimeout: 30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config with
// custom settings.
//
// Example:
//
//	cfg := vision.NewConfig(
//	    vision.WithHost("http://embed:9400"),
//	    vision.WithDim(768),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// Trailing slashes are stripped from the host so endpoint paths can be
// appended uniformly.
func (c *Config) Normalize() {
	c.Host = strings.TrimSuffix(c.Host, "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("vision config: Host is required")
	}
	if c.Model == "" {
		return errors.New("vision config: Model is required")
	}
	if c.Prompt == "" {
		return errors.New("vision config: Prompt is required")
	}
	if c.Dim <= 0 {
		return errors.New("vision config: Dim must be positive")
	}
	if c.DownloadTimeout <= 0 {
		return errors.New("vision config: DownloadTimeout must be positive")
	}
	if c.InferenceTimeout <= 0 {
		return errors.New("vision config: InferenceTimeout must be positive")
	}
	return nil
}
