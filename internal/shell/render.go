package shell

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"sales-records/internal/domain/customer"
	"sales-records/internal/domain/sale"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

var (
	accent  = lipgloss.Color("#00C832")
	dim     = lipgloss.Color("#3a3a4e")
	warning = lipgloss.Color("#FFD700")
	danger  = lipgloss.Color("#FF5F5F")
)

// view owns the styles for one output stream. The renderer detects the color
// profile of that stream, so plain buffers get plain text.
type view struct {
	out io.Writer

	title   lipgloss.Style
	status  lipgloss.Style
	success lipgloss.Style
	notice  lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	number  lipgloss.Style
	border  lipgloss.Style
}

func newView(out io.Writer) *view {
	r := lipgloss.NewRenderer(out)
	return &view{
		out:     out,
		title:   r.NewStyle().Foreground(accent).Bold(true),
		status:  r.NewStyle().Foreground(dim).Italic(true),
		success: r.NewStyle().Foreground(accent),
		notice:  r.NewStyle().Faint(true),
		warn:    r.NewStyle().Foreground(warning),
		err:     r.NewStyle().Foreground(danger).Bold(true),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		number:  r.NewStyle().Padding(0, 1).Align(lipgloss.Right),
		border:  r.NewStyle().Foreground(dim),
	}
}

func (v *view) println(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(v.out, style.Render(fmt.Sprintf(format, args...)))
}

func (v *view) Success(format string, args ...any) { v.println(v.success, format, args...) }
func (v *view) Notice(format string, args ...any)  { v.println(v.notice, format, args...) }
func (v *view) Warn(format string, args ...any)    { v.println(v.warn, "Warning: "+format, args...) }
func (v *view) Error(format string, args ...any)   { v.println(v.err, "Error: "+format, args...) }

func (v *view) Menu(items []menuItem, status string) {
	fmt.Fprintln(v.out)
	fmt.Fprintln(v.out, v.title.Render("Menu:"))
	for i, it := range items {
		fmt.Fprintf(v.out, "%d. %s\n", i+1, it.label)
	}
	fmt.Fprintln(v.out, v.status.Render(status))
}

func (v *view) newTable(headers []string, numeric ...int) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.border).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return v.header
			case slices.Contains(numeric, col):
				return v.number
			default:
				return v.cell
			}
		})
}

func (v *view) Customers(customers []customer.Customer) {
	t := v.newTable([]string{"ID", "Name", "Postcode", "Phone"}, 0)
	for _, c := range customers {
		t.Row(strconv.FormatInt(c.ID, 10), c.Name, c.Postcode, c.Phone)
	}
	fmt.Fprintln(v.out, t.Render())
}

func (v *view) Sales(sales []sale.Sale) {
	t := v.newTable([]string{"Transaction", "Customer", "Date", "Category", "Value"}, 0, 1, 4)
	total := decimal.Zero
	for _, s := range sales {
		t.Row(strconv.FormatInt(s.ID, 10), strconv.FormatInt(s.CustomerID, 10), s.Date, s.Category, s.FormatValue())
		if s.Value.Valid {
			total = total.Add(s.Value.Decimal)
		}
	}
	fmt.Fprintln(v.out, t.Render())
	v.Notice("%d sale(s), total %s", len(sales), total.StringFixed(2))
}
