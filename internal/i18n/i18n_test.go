package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHonorsQValues(t *testing.T) {
	b, err := Load("../../locales", "id", []string{"id", "en"})
	require.NoError(t, err)

	assert.Equal(t, "en", b.Resolve("id;q=0.8, en;q=0.9"))
	assert.Equal(t, "id", b.Resolve("id-ID,id;q=0.9"))
	assert.Equal(t, "id", b.Resolve("fr, de;q=0.5"))
	assert.Equal(t, "id", b.Resolve("en;q=0"))
}

func TestLocaleFilesShareKeys(t *testing.T) {
	b, err := Load("../../locales", "id", []string{"id", "en"})
	require.NoError(t, err)

	for key := range b.dict["id"] {
		_, ok := b.dict["en"][key]
		assert.Truef(t, ok, "key %q missing from en locale", key)
	}
}

func TestNestedKeysAreFlattened(t *testing.T) {
	dir := t.TempDir()
	doc := "form:\n  submit: Cari\n  brand:\n    label: Merek\ncount: 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id.yaml"), []byte(doc), 0o600))

	b, err := Load(dir, "id", []string{"id", "en"})
	require.NoError(t, err)

	assert.Equal(t, "Cari", b.T("id", "form.submit"))
	assert.Equal(t, "Merek", b.T("en", "form.brand.label"))
	assert.Equal(t, "3", b.T("id", "count"))
	assert.Equal(t, "missing.key", b.T("id", "missing.key"))
}

func TestLoadRequiresFallbackLocale(t *testing.T) {
	_, err := Load(t.TempDir(), "id", []string{"id"})
	require.Error(t, err)
}
