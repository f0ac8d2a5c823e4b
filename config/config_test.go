package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	settings, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "./vitrine-db", settings.DBPath)
	assert.Empty(t, settings.PGDSN)
	assert.Equal(t, "http://localhost:9400", settings.EmbeddingHost)
	assert.Equal(t, 768, settings.EmbeddingDim)
	assert.Equal(t, 30*time.Second, settings.InferenceTimeout)
	assert.Equal(t, "info", settings.LogLevel)
}

func TestLoadSettings_FromEnvironment(t *testing.T) {
	t.Setenv("VITRINE_DB_PATH", "/var/lib/vitrine")
	t.Setenv("VITRINE_EMBEDDING_DIM", "512")
	t.Setenv("VITRINE_PG_DSN", "postgres://vitrine@localhost:5432/vitrine")

	settings, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/vitrine", settings.DBPath)
	assert.Equal(t, 512, settings.EmbeddingDim)
	assert.Equal(t, "postgres://vitrine@localhost:5432/vitrine", settings.PGDSN)
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `{
		"urls": ["https://www.cos.com/api/catalog"],
		"files": ["./catalog.json"],
		"limit": 50
	}`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.cos.com/api/catalog"}, m.URLs)
	assert.Equal(t, []string{"./catalog.json"}, m.Files)
	assert.Equal(t, 50, m.Limit)
	assert.False(t, m.IsEmpty())
}

func TestLoadManifest_FiltersPlaceholders(t *testing.T) {
	path := writeManifest(t, `{
		"urls": ["PASTE_URL_1_HERE", "https://www.cos.com/api/catalog", "  "],
		"files": ["PASTE_FILE_PATH_HERE"]
	}`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.cos.com/api/catalog"}, m.URLs)
	assert.Nil(t, m.Files)
}

func TestLoadManifest_AllPlaceholders(t *testing.T) {
	path := writeManifest(t, `{"urls": ["PASTE_URL_1_HERE"], "files": []}`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())
}

func TestLoadManifest_Malformed(t *testing.T) {
	path := writeManifest(t, `{"urls": [`)

	_, err := LoadManifest(path)
	assert.Error(t, err)
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestManifestSources_OrderAndTypes(t *testing.T) {
	m := &Manifest{
		URLs:  []string{"https://a.example", "https://b.example"},
		Files: []string{"./c.json"},
	}

	sources := m.Sources()
	require.Len(t, sources, 3)
	assert.Equal(t, "https://a.example", sources[0].Name())
	assert.Equal(t, "https://b.example", sources[1].Name())
	assert.Equal(t, "./c.json", sources[2].Name())
}
