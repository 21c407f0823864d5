package records

import "context"

// Table is the file-level shape of a collection: a header row followed by data rows,
// each row holding one value per header column.
type Table struct {
	Header []string
	Rows   [][]string

	// HeaderLine and Lines give the 1-based source line of the header and of each
	// row, for formats where a record can span lines. Zero values mean one line per
	// record starting at line 1.
	HeaderLine int
	Lines      []int
}

func (t *Table) headerLine() int {
	if t.HeaderLine > 0 {
		return t.HeaderLine
	}
	return 1
}

// lineOf returns the source line of row i.
func (t *Table) lineOf(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return t.headerLine() + 1 + i
}

// TableRepository reads and writes whole tables. Implementations decide the on-disk
// format; the store only deals in headers and rows.
type TableRepository interface {
	// Read returns the whole file. Missing files map to apperrors.ErrFileNotFound and
	// undecodable content to apperrors.ErrMalformedInput.
	Read(ctx context.Context, path string) (*Table, error)

	// Write replaces the file at path with t in one step.
	Write(ctx context.Context, path string, t *Table) error

	Exists(path string) (bool, error)
}

// OverwriteConfirmer decides whether an existing file may be replaced.
type OverwriteConfirmer interface {
	ConfirmOverwrite(path string) bool
}

// ConfirmFunc adapts a plain function to OverwriteConfirmer.
type ConfirmFunc func(path string) bool

func (f ConfirmFunc) ConfirmOverwrite(path string) bool { return f(path) }

// AlwaysOverwrite replaces existing files without asking.
var AlwaysOverwrite OverwriteConfirmer = ConfirmFunc(func(string) bool { return true })
