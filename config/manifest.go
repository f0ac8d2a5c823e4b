package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/vitrine/fetch"
)

// placeholderPrefix marks manifest entries that were never filled in.
// Template manifests ship with entries like "PASTE_URL_1_HERE"; these are
// silently dropped rather than fetched.
const placeholderPrefix = "PASTE_"

// Manifest describes one ingestion run: which sources to read and an
// optional per-source truncation limit.
type Manifest struct {
	URLs  []string `json:"urls"`
	Files []string `json:"files"`
	Limit int      `json:"limit"`
}

// LoadManifest reads and parses a run manifest JSON file.
// Placeholder entries are filtered out.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	m.URLs = dropPlaceholders(m.URLs)
	m.Files = dropPlaceholders(m.Files)
	return &m, nil
}

// Sources builds the fetch sources for this manifest, URLs first then
// files, preserving manifest order within each group.
func (m *Manifest) Sources(opts ...fetch.HTTPOption) []fetch.Source {
	sources := make([]fetch.Source, 0, len(m.URLs)+len(m.Files))
	for _, url := range m.URLs {
		sources = append(sources, fetch.NewHTTPSource(url, opts...))
	}
	for _, path := range m.Files {
		sources = append(sources, fetch.NewFileSource(path))
	}
	return sources
}

// IsEmpty reports whether the manifest names no usable sources.
func (m *Manifest) IsEmpty() bool {
	return len(m.URLs) == 0 && len(m.Files) == 0
}

func dropPlaceholders(entries []string) []string {
	kept := entries[:0]
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" || strings.HasPrefix(entry, placeholderPrefix) {
			continue
		}
		kept = append(kept, entry)
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
