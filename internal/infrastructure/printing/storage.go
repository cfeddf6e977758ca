package printing

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/nizy/tailor/internal/domain/printing"
	"go.uber.org/zap"
)

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the root directory of the archive
	// Default: ./data
	BasePath string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStorage archives generated documents on the local file system.
// Files are written to a temporary name and renamed into place, so a reader
// never sees a partially written document.
type FileSystemStorage struct {
	config *FileSystemStorageConfig
	logger *zap.Logger
}

// NewFileSystemStorage creates a new file system document archive
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "./data"
	}

	if err := os.MkdirAll(config.BasePath, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create storage directory: "+config.BasePath, err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStorage{
		config: config,
		logger: logger,
	}, nil
}

// Archive writes doc under exports/<yyyy>/<mm>/<file name> and returns the key
func (s *FileSystemStorage) Archive(ctx context.Context, doc *printing.Document, at time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if doc == nil || doc.Size() == 0 {
		return "", NewRenderError(ErrCodeStorageFailed, "document is empty", nil)
	}
	if doc.FileName == "" || containsDotDot(doc.FileName) || strings.ContainsAny(doc.FileName, `/\`) {
		return "", NewRenderError(ErrCodeStorageFailed, "invalid file name: "+doc.FileName, nil)
	}

	key := printing.ArchiveKey(doc.FileName, at)
	fullPath := filepath.Join(s.config.BasePath, filepath.FromSlash(key))
	if err := writeFileAtomic(fullPath, doc.Data); err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to write document", err)
	}

	s.logger.Info("document archived",
		zap.String("key", key),
		zap.Int("size", doc.Size()))
	return key, nil
}

// Get opens an archived document by key
func (s *FileSystemStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewRenderError(ErrCodeStorageFailed, "document not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open document", err)
	}
	return file, nil
}

// Delete removes an archived document. Missing files are not an error.
func (s *FileSystemStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return NewRenderError(ErrCodeStorageFailed, "failed to delete document", err)
	}
	s.logger.Info("document deleted", zap.String("key", key))
	return nil
}

// CleanupOlderThan removes archived documents older than age
func (s *FileSystemStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deleted := 0

	err := filepath.WalkDir(s.config.BasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || isTempFile(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deleted++
				s.logger.Debug("deleted old document", zap.String("path", path))
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return deleted, NewRenderError(ErrCodeStorageFailed, "cleanup walk failed", err)
	}

	s.logger.Info("archive cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))
	return deleted, nil
}

// resolve maps a key to a path that is guaranteed to stay under BasePath
func (s *FileSystemStorage) resolve(key string) (string, error) {
	cleanPath := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(cleanPath) || containsDotDot(key) {
		s.logger.Warn("blocked potentially malicious path", zap.String("key", key))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}

	fullPath := filepath.Join(s.config.BasePath, cleanPath)
	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked",
			zap.String("key", key),
			zap.String("absPath", absPath))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}
	return fullPath, nil
}

const tempFilePrefix = ".tmp-"

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it over path. On failure the temporary file is removed.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, tempFilePrefix+"*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func isTempFile(name string) bool {
	return strings.HasPrefix(name, tempFilePrefix)
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	return slices.Contains(parts, "..")
}

var _ printing.DocumentArchive = (*FileSystemStorage)(nil)
