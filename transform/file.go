package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/use-agent/seotest/models"
)

// ConvertFile reads a scrape document from inPath, transforms it, and writes
// the test cases to outPath as indented JSON. It returns the number of cases
// written. Nothing is written when reading or transforming fails.
func ConvertFile(inPath, outPath, id, idPage string) (int, error) {
	f, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("transform: open input: %w", err)
	}
	defer f.Close()

	doc, err := models.DecodeScrapeDocument(f)
	if err != nil {
		return 0, err
	}

	cases, err := TransformDocument(doc, id, idPage)
	if err != nil {
		return 0, err
	}

	data, err := Encode(cases)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("transform: write output: %w", err)
	}

	slog.Debug("test data written", "in", inPath, "out", outPath, "cases", len(cases))
	return len(cases), nil
}

// Encode renders cases as a 4-space indented JSON array. HTML characters and
// non-ASCII text are written as-is.
func Encode(cases []models.TestCase) ([]byte, error) {
	if cases == nil {
		cases = []models.TestCase{}
	}
	return EncodeJSON(cases)
}

// EncodeJSON renders v the way every seotest file is written: 4-space
// indent, no trailing newline, and no \u escaping of <, > and &.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("transform: encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
