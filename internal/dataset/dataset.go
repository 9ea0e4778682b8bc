package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/emoreduce/pkg/emoreduce/internalerr"
)

// Column names in the input and output files
const (
	TextColumn  = "text"
	LabelColumn = "label"
)

// Record is one input row with its labels in source order
type Record struct {
	Text   string
	Labels []string
}

// ReducedRecord is one output row carrying a single label
type ReducedRecord struct {
	Text  string
	Label string
}

// Load reads every row of a CSV file whose header names a text and a label
// column. Labels are split on commas and trimmed. A row with an empty label
// token fails the whole load.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses records from r. See Load.
func Read(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: %w: empty file", internalerr.ErrInvalidInput)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	textIdx, labelIdx := -1, -1
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		switch {
		case strings.EqualFold(col, TextColumn):
			textIdx = i
		case strings.EqualFold(col, LabelColumn):
			labelIdx = i
		}
	}
	if textIdx == -1 {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrMissingColumn, TextColumn)
	}
	if labelIdx == -1 {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrMissingColumn, LabelColumn)
	}

	var records []Record
	rowNum := 1 // header
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNum, err)
		}
		if textIdx >= len(row) || labelIdx >= len(row) {
			return nil, fmt.Errorf("row %d: %w: expected at least %d fields, got %d",
				rowNum, internalerr.ErrInvalidInput, max(textIdx, labelIdx)+1, len(row))
		}

		labels, err := SplitLabels(row[labelIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		records = append(records, Record{Text: row[textIdx], Labels: labels})
	}

	return records, nil
}

// SplitLabels splits a comma-joined label cell into trimmed tokens
func SplitLabels(cell string) ([]string, error) {
	if strings.TrimSpace(cell) == "" {
		return nil, fmt.Errorf("%w: empty label", internalerr.ErrInvalidInput)
	}
	parts := strings.Split(cell, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return nil, fmt.Errorf("%w: empty token in label %q", internalerr.ErrInvalidInput, cell)
		}
	}
	return parts, nil
}

// Write stores reduced records as a text,label CSV. The file is written to a
// temporary sibling and renamed into place, so a failed write leaves nothing
// at path.
func Write(path string, records []ReducedRecord) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := Encode(bw, records); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// Encode writes the header and rows to w
func Encode(w io.Writer, records []ReducedRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{TextColumn, LabelColumn}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		if err := writer.Write([]string{rec.Text, rec.Label}); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
