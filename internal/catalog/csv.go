package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CSVLoader reads a single CSV file, or every *.csv file in a directory
// concatenated in file-name order.
type CSVLoader struct {
	path string
}

func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

func (l *CSVLoader) Load(ctx context.Context) ([]RawRecord, error) {
	files, err := l.files()
	if err != nil {
		return nil, err
	}

	var records []RawRecord
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		records = append(records, rows...)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no rows in %s", ErrEmptyCatalog, l.path)
	}

	return records, nil
}

func (l *CSVLoader) files() ([]string, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog path: %w", err)
	}
	if !info.IsDir() {
		return []string{l.path}, nil
	}

	entries, err := os.ReadDir(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(l.path, entry.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no csv files in %s", ErrEmptyCatalog, l.path)
	}

	return files, nil
}

func (l *CSVLoader) loadFile(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return parseCSV(f, filepath.Base(path))
}

func parseCSV(r io.Reader, source string) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s has no header", ErrMissingColumn, source)
		}
		return nil, fmt.Errorf("failed to read %s header: %w", source, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	decoder, err := newRowDecoder(source, header)
	if err != nil {
		return nil, err
	}

	var records []RawRecord
	line := 1
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", source, line, err)
		}

		record, err := decoder.decode(line, cells)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
