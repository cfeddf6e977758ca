package printing

import (
	"context"
	"fmt"
	"path"
	"time"
)

// ArchivePrefix is the root of every archived document key
const ArchivePrefix = "exports"

// DocumentArchive keeps a copy of every generated document
type DocumentArchive interface {
	// Archive stores the document and returns its key
	Archive(ctx context.Context, doc *Document, at time.Time) (string, error)
}

// ArchiveKey returns the storage key of a document generated at the given
// time: exports/<yyyy>/<mm>/<file name>
func ArchiveKey(fileName string, at time.Time) string {
	return path.Join(ArchivePrefix, fmt.Sprintf("%04d", at.Year()), fmt.Sprintf("%02d", int(at.Month())), fileName)
}
