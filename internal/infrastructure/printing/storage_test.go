package printing

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var archivedAt = time.Date(2026, time.October, 15, 11, 30, 0, 0, time.UTC)

func newTestStorage(t *testing.T) (*FileSystemStorage, string) {
	t.Helper()
	dir := t.TempDir()
	storage, err := NewFileSystemStorage(&FileSystemStorageConfig{BasePath: dir})
	require.NoError(t, err)
	return storage, dir
}

func testDocument(name string) *printing.Document {
	return &printing.Document{
		Type:        printing.DocTypeInvoice,
		Format:      printing.FormatPDF,
		FileName:    name,
		ContentType: printing.FormatPDF.ContentType(),
		Data:        []byte(fakePDF),
	}
}

func TestNewFileSystemStorage(t *testing.T) {
	t.Run("creates base directory", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "nested", "archive")

		storage, err := NewFileSystemStorage(&FileSystemStorageConfig{BasePath: base})
		require.NoError(t, err)

		assert.DirExists(t, base)
		assert.NotNil(t, storage)
	})

	t.Run("base path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		_, err := NewFileSystemStorage(&FileSystemStorageConfig{BasePath: filepath.Join(file, "sub")})
		assert.Error(t, err)
	})
}

func TestFileSystemStorage_Archive(t *testing.T) {
	storage, dir := newTestStorage(t)
	ctx := context.Background()

	t.Run("writes under year and month", func(t *testing.T) {
		key, err := storage.Archive(ctx, testDocument("Invoice_Ravi_Kumar_a1b2c3.pdf"), archivedAt)
		require.NoError(t, err)

		assert.Equal(t, "exports/2026/10/Invoice_Ravi_Kumar_a1b2c3.pdf", key)
		data, err := os.ReadFile(filepath.Join(dir, "exports", "2026", "10", "Invoice_Ravi_Kumar_a1b2c3.pdf"))
		require.NoError(t, err)
		assert.Equal(t, fakePDF, string(data))
	})

	t.Run("leaves no temporary files", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Join(dir, "exports", "2026", "10"))
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, isTempFile(e.Name()), e.Name())
		}
	})

	t.Run("rejects empty document", func(t *testing.T) {
		doc := testDocument("empty.pdf")
		doc.Data = nil

		_, err := storage.Archive(ctx, doc, archivedAt)
		assert.Error(t, err)
	})

	t.Run("rejects path in file name", func(t *testing.T) {
		for _, name := range []string{"../escape.pdf", "a/b.pdf", `a\b.pdf`, ""} {
			_, err := storage.Archive(ctx, testDocument(name), archivedAt)
			assert.Error(t, err, name)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := storage.Archive(cancelled, testDocument("x.pdf"), archivedAt)
		assert.Error(t, err)
	})
}

func TestFileSystemStorage_GetAndDelete(t *testing.T) {
	storage, _ := newTestStorage(t)
	ctx := context.Background()

	key, err := storage.Archive(ctx, testDocument("orders_nizy_20261015_1130.pdf"), archivedAt)
	require.NoError(t, err)

	rc, err := storage.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, fakePDF, string(data))

	require.NoError(t, storage.Delete(ctx, key))
	_, err = storage.Get(ctx, key)
	assert.Error(t, err)

	// deleting twice is fine
	assert.NoError(t, storage.Delete(ctx, key))
}

func TestFileSystemStorage_PathTraversal(t *testing.T) {
	storage, _ := newTestStorage(t)
	ctx := context.Background()

	for _, key := range []string{"../etc/passwd", "exports/../../secret", "/etc/passwd", ""} {
		t.Run(key, func(t *testing.T) {
			_, err := storage.Get(ctx, key)
			assert.Error(t, err)
			assert.Error(t, storage.Delete(ctx, key))
		})
	}
}

func TestFileSystemStorage_CleanupOlderThan(t *testing.T) {
	storage, dir := newTestStorage(t)
	ctx := context.Background()

	oldKey, err := storage.Archive(ctx, testDocument("old.pdf"), archivedAt)
	require.NoError(t, err)
	newKey, err := storage.Archive(ctx, testDocument("new.pdf"), archivedAt)
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, filepath.FromSlash(oldKey)), past, past))

	deleted, err := storage.CleanupOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, deleted)
	assert.NoFileExists(t, filepath.Join(dir, filepath.FromSlash(oldKey)))
	assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(newKey)))
}

func TestContainsDotDot(t *testing.T) {
	assert.True(t, containsDotDot("../a"))
	assert.True(t, containsDotDot(`a\..\b`))
	assert.False(t, containsDotDot("exports/2026/10/a..b.pdf"))
}
