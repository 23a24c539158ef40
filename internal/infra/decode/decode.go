// Package decode turns raw source files into record sets. Decoders only
// parse; classifying a record as valid or invalid is the ingest stage's job,
// so elements that are not even record-shaped are passed through for the
// validator to reject. A file that cannot be parsed at all is a fault and
// wraps entity.ErrMalformedInput.
package decode

import (
	"fmt"
	"io"

	"drug-pipeline/internal/domain/entity"
)

// Records decodes one raw source file in the given format.
func Records(r io.Reader, format entity.SourceFormat, lenientJSON bool) ([]any, error) {
	switch format {
	case entity.FormatJSON:
		return JSON(r, lenientJSON)
	case entity.FormatCSV:
		return CSV(r)
	}
	return nil, fmt.Errorf("Records: unsupported format %q: %w", format, entity.ErrInvalidInput)
}
