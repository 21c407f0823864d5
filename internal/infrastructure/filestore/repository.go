package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sales-records/internal/domain/records"
	"sales-records/internal/pkg/apperrors"

	"github.com/google/renameio/v2"
)

// Repository picks the file format from the path's extension: .xlsx files are
// Excel workbooks, everything else is delimited text.
type Repository struct {
	csv  *CSVRepository
	xlsx *XLSXRepository
}

var _ records.TableRepository = (*Repository)(nil)

func NewRepository(delimiter rune, logger *slog.Logger) *Repository {
	return &Repository{
		csv:  NewCSVRepository(delimiter, logger),
		xlsx: NewXLSXRepository(logger),
	}
}

func (r *Repository) forPath(path string) records.TableRepository {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return r.xlsx
	}
	return r.csv
}

func (r *Repository) Read(ctx context.Context, path string) (*records.Table, error) {
	return r.forPath(path).Read(ctx, path)
}

func (r *Repository) Write(ctx context.Context, path string, t *records.Table) error {
	return r.forPath(path).Write(ctx, path, t)
}

func (r *Repository) Exists(path string) (bool, error) {
	return fileExists(path)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrFileNotFound, path)
		}
		return nil, apperrors.WrapFileError(err, fmt.Sprintf("failed to read %s", path))
	}
	return data, nil
}

func fileExists(path string) (bool, error) {
	st, err := os.Stat(path)
	if err == nil {
		if st.IsDir() {
			return false, apperrors.WrapFileError(fmt.Errorf("%s is a directory", path), "invalid destination")
		}
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, apperrors.WrapFileError(err, fmt.Sprintf("failed to stat %s", path))
}

// writeAtomic hands write a temporary file next to path and renames it over path
// only once write and fsync succeed; otherwise the temporary file is removed and
// path is untouched. An existing file keeps its permissions, a new one gets 0644
// less the umask.
func writeAtomic(path string, write func(io.Writer) error) error {
	pending, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithPermissions(0o644),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return apperrors.WrapFileError(err, fmt.Sprintf("failed to create %s", path))
	}
	defer pending.Cleanup()

	if err := write(pending); err != nil {
		return apperrors.WrapFileError(err, fmt.Sprintf("failed to write %s", path))
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return apperrors.WrapFileError(err, fmt.Sprintf("failed to replace %s", path))
	}

	// the rename is only durable once the directory entry is
	if d, _ := os.Open(filepath.Dir(path)); d != nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return logger.With(slog.String("component", component))
}
