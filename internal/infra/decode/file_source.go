package decode

import (
	"context"
	"fmt"
	"os"

	"drug-pipeline/internal/domain/entity"
)

// FileSource loads raw source files from the local filesystem, the staging
// area the scheduler drops extracts into before a run.
type FileSource struct {
	// LenientJSON retries a failed JSON parse with trailing commas stripped.
	LenientJSON bool
}

// Load reads and decodes the file at path.
func (f *FileSource) Load(_ context.Context, path string, format entity.SourceFormat) ([]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Load: open %s: %w", path, err)
	}
	defer file.Close()

	return Records(file, format, f.LenientJSON)
}
