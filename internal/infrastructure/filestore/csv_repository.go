package filestore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"sales-records/internal/domain/records"
	"sales-records/internal/pkg/apperrors"
)

const utf8BOM = "\uFEFF"

type CSVRepository struct {
	delimiter rune
	logger    *slog.Logger
}

var _ records.TableRepository = (*CSVRepository)(nil)

func NewCSVRepository(delimiter rune, logger *slog.Logger) *CSVRepository {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVRepository{
		delimiter: delimiter,
		logger:    componentLogger(logger, "CSVRepository"),
	}
}

func (r *CSVRepository) Read(ctx context.Context, path string) (*records.Table, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = r.delimiter
	reader.FieldsPerRecord = 0

	table := &records.Table{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.logger.WarnContext(ctx, "Malformed CSV", slog.String("path", path), slog.Any("error", err))
				return nil, apperrors.MalformedAt(path, parseErr.Line, "%v", parseErr.Err)
			}
			return nil, apperrors.WrapFileError(err, fmt.Sprintf("failed to read %s", path))
		}

		// quoted fields may span lines, so ask the reader where the record began
		line, _ := reader.FieldPos(0)
		if table.Header == nil {
			table.Header = normalizeHeader(row)
			table.HeaderLine = line
			continue
		}
		table.Rows = append(table.Rows, row)
		table.Lines = append(table.Lines, line)
	}
	r.logger.DebugContext(ctx, "Read CSV file", slog.String("path", path), slog.Int("rows", len(table.Rows)))
	return table, nil
}

func (r *CSVRepository) Write(ctx context.Context, path string, t *records.Table) error {
	err := writeAtomic(path, func(f io.Writer) error {
		w := csv.NewWriter(f)
		w.Comma = r.delimiter
		if err := w.Write(t.Header); err != nil {
			return err
		}
		return w.WriteAll(t.Rows)
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to write CSV file", slog.String("path", path), slog.Any("error", err))
		return err
	}

	r.logger.DebugContext(ctx, "Wrote CSV file", slog.String("path", path), slog.Int("rows", len(t.Rows)))
	return nil
}

func (r *CSVRepository) Exists(path string) (bool, error) {
	return fileExists(path)
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
