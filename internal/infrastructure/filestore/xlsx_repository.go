package filestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"sales-records/internal/domain/records"
	"sales-records/internal/pkg/apperrors"

	"github.com/xuri/excelize/v2"
)

const maxSheetNameLen = 31

// XLSXRepository stores a table on the first sheet of a workbook, header in row 1.
type XLSXRepository struct {
	logger *slog.Logger
}

var _ records.TableRepository = (*XLSXRepository)(nil)

func NewXLSXRepository(logger *slog.Logger) *XLSXRepository {
	return &XLSXRepository{logger: componentLogger(logger, "XLSXRepository")}
}

func (r *XLSXRepository) Read(ctx context.Context, path string) (*records.Table, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		r.logger.WarnContext(ctx, "Malformed workbook", slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrMalformedInput, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &records.Table{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrMalformedInput, path, err)
	}

	table := &records.Table{}
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if table.Header == nil {
			table.Header = normalizeHeader(row)
			table.HeaderLine = i + 1
			continue
		}
		if len(row) > len(table.Header) {
			if !isBlank(row[len(table.Header):]) {
				return nil, apperrors.MalformedAt(path, i+1, "row has %d cells, header has %d", len(row), len(table.Header))
			}
			row = row[:len(table.Header)]
		}
		// GetRows drops trailing empty cells
		for len(row) < len(table.Header) {
			row = append(row, "")
		}
		table.Rows = append(table.Rows, row)
		table.Lines = append(table.Lines, i+1)
	}

	r.logger.DebugContext(ctx, "Read workbook", slog.String("path", path), slog.String("sheet", sheets[0]), slog.Int("rows", len(table.Rows)))
	return table, nil
}

func (r *XLSXRepository) Write(ctx context.Context, path string, t *records.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(path)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return apperrors.WrapFileError(err, fmt.Sprintf("failed to name sheet in %s", path))
	}

	all := append([][]string{t.Header}, t.Rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return apperrors.WrapFileError(err, fmt.Sprintf("failed to write %s", path))
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.WrapFileError(err, fmt.Sprintf("failed to write %s", path))
		}
	}

	err := writeAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to write workbook", slog.String("path", path), slog.Any("error", err))
		return err
	}

	r.logger.DebugContext(ctx, "Wrote workbook", slog.String("path", path), slog.Int("rows", len(t.Rows)))
	return nil
}

func (r *XLSXRepository) Exists(path string) (bool, error) {
	return fileExists(path)
}

// sheetName derives a valid worksheet name from the file name.
func sheetName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, base)
	base = strings.Trim(base, "'")
	if runes := []rune(base); len(runes) > maxSheetNameLen {
		base = string(runes[:maxSheetNameLen])
	}
	if base == "" {
		return "Sheet1"
	}
	return base
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
