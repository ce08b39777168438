package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestGetRendersMarkdownWithFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "about.id.md", "---\ntitle: Tentang\nupdated_at: 2024-05-01\n---\n# Halo\n\nTeks **tebal** <script>alert(1)</script>\n")

	page, err := NewStore(dir, "id", time.Minute).Get(context.Background(), "about", "id")
	require.NoError(t, err)
	assert.Equal(t, "Tentang", page.Title)
	assert.Equal(t, "id", page.Lang)
	assert.Contains(t, string(page.HTML), "<h1")
	assert.Contains(t, string(page.HTML), "<strong>tebal</strong>")
	assert.NotContains(t, string(page.HTML), "<script>")
	assert.Equal(t, 2024, page.UpdatedAt.Year())
}

func TestGetFallsBackToDefaultLanguage(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "about.id.md", "Isi halaman\n")

	page, err := NewStore(dir, "id", 0).Get(context.Background(), "about", "en")
	require.NoError(t, err)
	assert.Equal(t, "id", page.Lang)
	assert.Equal(t, "About", page.Title)
}

func TestGetRejectsUnknownAndTraversal(t *testing.T) {
	s := NewStore(t.TempDir(), "id", time.Minute)
	_, err := s.Get(context.Background(), "missing", "id")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(context.Background(), "../etc/passwd", "id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCachesUntilTTL(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "about.en.md", "---\ntitle: First\n---\nbody\n")
	s := NewStore(dir, "id", time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	page, err := s.Get(context.Background(), "about", "en")
	require.NoError(t, err)
	assert.Equal(t, "First", page.Title)

	writePage(t, dir, "about.en.md", "---\ntitle: Second\n---\nbody\n")
	page, _ = s.Get(context.Background(), "about", "en")
	assert.Equal(t, "First", page.Title)

	now = now.Add(2 * time.Minute)
	page, _ = s.Get(context.Background(), "about", "en")
	assert.Equal(t, "Second", page.Title)
}
