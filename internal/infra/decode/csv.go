package decode

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"drug-pipeline/internal/domain/entity"
)

// CSV decodes header-labeled rows into records keyed by column name. Rows
// shorter than the header keep only the columns they have (the validator
// flags the missing fields) and surplus cells beyond the header are dropped.
// A CSV parse error fails the whole file.
func CSV(r io.Reader) ([]any, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("CSV: header: %w: %v", entity.ErrMalformedInput, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	var records []any
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV: %w: %v", entity.ErrMalformedInput, err)
		}

		record := make(map[string]any, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			record[name] = row[i]
		}
		records = append(records, record)
	}
	return records, nil
}
