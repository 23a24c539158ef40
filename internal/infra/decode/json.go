package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"drug-pipeline/internal/domain/entity"
)

// JSON decodes a JSON array of records. Numbers decode as json.Number so
// numeric identifiers keep their written form. When lenient is true, a failed
// parse is retried once with trailing commas stripped, a recurring defect in
// upstream extracts that would otherwise fail the whole source.
func JSON(r io.Reader, lenient bool) ([]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("JSON: read: %w", err)
	}

	records, err := parseRecordArray(data)
	if err == nil {
		return records, nil
	}
	if lenient {
		if records, retryErr := parseRecordArray(stripTrailingCommas(data)); retryErr == nil {
			return records, nil
		}
	}
	return nil, fmt.Errorf("JSON: %w: %v", entity.ErrMalformedInput, err)
}

func parseRecordArray(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []any
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after record array")
	}
	return records, nil
}

// stripTrailingCommas removes commas that directly precede a closing bracket
// or brace, outside string literals. Everything else passes through
// byte-for-byte.
func stripTrailingCommas(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	escaped := false

	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case ',':
			j := i + 1
			for j < len(data) && isJSONSpace(data[j]) {
				j++
			}
			if j < len(data) && (data[j] == ']' || data[j] == '}') {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
