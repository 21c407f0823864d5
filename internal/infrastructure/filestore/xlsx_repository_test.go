package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sales-records/internal/domain/records"
	"sales-records/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewXLSXRepository(nil)
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	in := &records.Table{
		Header: []string{"sale_id", "cust_id", "date", "category", "value", "note"},
		Rows: [][]string{
			{"100000000", "100000", "2024-01-01", "Electronics", "49.99", ""},
			{"100000001", "100000", "2024-01-02", "Garden", "5.00", "gift"},
		},
	}

	require.NoError(t, repo.Write(ctx, path, in))
	out, err := repo.Read(ctx, path)

	require.NoError(t, err)
	assert.Equal(t, in.Header, out.Header)
	assert.Equal(t, in.Rows, out.Rows)
	assert.Equal(t, []int{2, 3}, out.Lines)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"sales"}, f.GetSheetList())
}

func TestXLSXRepository_Read(t *testing.T) {
	ctx := context.Background()
	repo := NewXLSXRepository(nil)

	t.Run("Missing file", func(t *testing.T) {
		_, err := repo.Read(ctx, filepath.Join(t.TempDir(), "nope.xlsx"))
		assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	})

	t.Run("Not a workbook", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("cust_id,name\n1,A\n"), 0644))

		_, err := repo.Read(ctx, path)
		assert.ErrorIs(t, err, apperrors.ErrMalformedInput)
	})

	t.Run("Short rows are padded and blank rows skipped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "customers.xlsx")
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"cust_id", "name", "postcode"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"100000", "Alice"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]string{"100001", "Bob", "10001"}))
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		table, err := repo.Read(ctx, path)

		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"100000", "Alice", ""},
			{"100001", "Bob", "10001"},
		}, table.Rows)
		assert.Equal(t, []int{2, 4}, table.Lines, "rows keep their sheet row numbers")
	})

	t.Run("Cells beyond the header are malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wide.xlsx")
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"cust_id", "name"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"100000", "Alice", "extra"}))
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		_, err := repo.Read(ctx, path)
		assert.ErrorIs(t, err, apperrors.ErrMalformedInput)
	})
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/customers.xlsx", "customers"},
		{"q1[2024]?.xlsx", "q1_2024__"},
		{".xlsx", "Sheet1"},
		{"a-very-long-file-name-that-exceeds-the-limit.xlsx", "a-very-long-file-name-that-exce"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, sheetName(tt.path))
		})
	}
}
