package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skillbridge/jobmatcher/internal/db"
)

// FileStore resolves a CV document to its raw file bytes.
type FileStore interface {
	Read(ctx context.Context, cv *db.CVDocument) ([]byte, error)
}

// LocalFiles reads uploaded CVs from a directory. Files are stored under
// the document's ID with the original extension.
type LocalFiles struct {
	Dir string
}

func (l LocalFiles) path(cv *db.CVDocument) string {
	ext := strings.ToLower(filepath.Ext(cv.OriginalFilename))
	return filepath.Join(l.Dir, cv.ID.String()+ext)
}

func (l LocalFiles) Read(ctx context.Context, cv *db.CVDocument) ([]byte, error) {
	data, err := os.ReadFile(l.path(cv))
	if err != nil {
		return nil, fmt.Errorf("reading cv file for %s: %w", cv.ID, err)
	}
	return data, nil
}

// Write stores an uploaded CV's bytes where Read will find them.
func (l LocalFiles) Write(ctx context.Context, cv *db.CVDocument, data []byte) error {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return fmt.Errorf("creating upload dir: %w", err)
	}
	if err := os.WriteFile(l.path(cv), data, 0o644); err != nil {
		return fmt.Errorf("writing cv file for %s: %w", cv.ID, err)
	}
	return nil
}
