package records

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"sales-records/internal/domain/customer"
	"sales-records/internal/domain/sale"
	"sales-records/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type CustomerColumns struct {
	ID       string
	Name     string
	Postcode string
	Phone    string
}

type SaleColumns struct {
	ID         string
	CustomerID string
	Date       string
	Category   string
	Value      string
}

type Schema struct {
	Customers CustomerColumns
	Sales     SaleColumns
}

func DefaultSchema() Schema {
	return Schema{
		Customers: CustomerColumns{ID: "cust_id", Name: "name", Postcode: "postcode", Phone: "phone"},
		Sales:     SaleColumns{ID: "sale_id", CustomerID: "cust_id", Date: "date", Category: "category", Value: "value"},
	}
}

func (c CustomerColumns) typed() []string {
	return []string{c.ID, c.Name, c.Postcode, c.Phone}
}

func (c SaleColumns) typed() []string {
	return []string{c.ID, c.CustomerID, c.Date, c.Category, c.Value}
}

// columnsFor keeps the file's header order and appends any typed column the file
// lacked, so values entered during the session have somewhere to go on save.
func columnsFor(header, typed []string) []string {
	cols := slices.Clone(header)
	for _, c := range typed {
		if !slices.Contains(cols, c) {
			cols = append(cols, c)
		}
	}
	return cols
}

func checkHeader(path string, t *Table, required ...string) error {
	header, line := t.Header, t.headerLine()
	if len(header) == 0 {
		return apperrors.MalformedAt(path, line, "missing header row")
	}
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if h == "" {
			return apperrors.MalformedAt(path, line, "empty column name in header")
		}
		if seen[h] {
			return apperrors.MalformedAt(path, line, "duplicate column %q", h)
		}
		seen[h] = true
	}
	for _, r := range required {
		if !seen[r] {
			return apperrors.MalformedAt(path, line, "required column %q not found", r)
		}
	}
	return nil
}

func rowMap(header, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(row) {
			m[h] = row[i]
		} else {
			m[h] = ""
		}
	}
	return m
}

// extras moves every column that is not typed out of m.
func extras(m map[string]string, typed []string) map[string]string {
	var out map[string]string
	for k, v := range m {
		if slices.Contains(typed, k) {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[k] = v
	}
	return out
}

func parseID(path string, line int, column, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperrors.MalformedAt(path, line, "column %q: invalid id %q", column, raw)
	}
	return id, nil
}

func (c CustomerColumns) decode(path string, t *Table) ([]*customer.Customer, error) {
	if err := checkHeader(path, t, c.ID, c.Name); err != nil {
		return nil, err
	}
	typed := c.typed()
	out := make([]*customer.Customer, 0, len(t.Rows))
	seen := make(map[int64]int, len(t.Rows))
	for i, row := range t.Rows {
		line := t.lineOf(i)
		m := rowMap(t.Header, row)
		id, err := parseID(path, line, c.ID, m[c.ID])
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[id]; dup {
			return nil, apperrors.MalformedAt(path, line, "duplicate customer id %d (first seen on line %d)", id, prev)
		}
		seen[id] = line
		out = append(out, &customer.Customer{
			ID:       id,
			Name:     m[c.Name],
			Postcode: m[c.Postcode],
			Phone:    m[c.Phone],
			Extra:    extras(m, typed),
		})
	}
	return out, nil
}

func (c CustomerColumns) encode(columns []string, customers []*customer.Customer) *Table {
	t := &Table{Header: slices.Clone(columns), Rows: make([][]string, 0, len(customers))}
	for _, cust := range customers {
		row := make([]string, len(columns))
		for i, col := range columns {
			switch col {
			case c.ID:
				row[i] = strconv.FormatInt(cust.ID, 10)
			case c.Name:
				row[i] = cust.Name
			case c.Postcode:
				row[i] = cust.Postcode
			case c.Phone:
				row[i] = cust.Phone
			default:
				row[i] = cust.Extra[col]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func (c SaleColumns) decode(path string, t *Table) ([]*sale.Sale, error) {
	if err := checkHeader(path, t, c.ID, c.CustomerID); err != nil {
		return nil, err
	}
	typed := c.typed()
	out := make([]*sale.Sale, 0, len(t.Rows))
	seen := make(map[int64]int, len(t.Rows))
	for i, row := range t.Rows {
		line := t.lineOf(i)
		m := rowMap(t.Header, row)
		id, err := parseID(path, line, c.ID, m[c.ID])
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[id]; dup {
			return nil, apperrors.MalformedAt(path, line, "duplicate sale id %d (first seen on line %d)", id, prev)
		}
		seen[id] = line
		custID, err := parseID(path, line, c.CustomerID, m[c.CustomerID])
		if err != nil {
			return nil, err
		}
		s := &sale.Sale{
			ID:         id,
			CustomerID: custID,
			Date:       m[c.Date],
			Category:   m[c.Category],
			Extra:      extras(m, typed),
		}
		if raw := strings.TrimSpace(m[c.Value]); raw != "" {
			v, err := sale.ParseValue(raw)
			if err != nil {
				return nil, apperrors.MalformedAt(path, line, "column %q: invalid value %q", c.Value, raw)
			}
			s.Value = decimal.NewNullDecimal(v)
		}
		out = append(out, s)
	}
	return out, nil
}

func (c SaleColumns) encode(columns []string, sales []*sale.Sale) *Table {
	t := &Table{Header: slices.Clone(columns), Rows: make([][]string, 0, len(sales))}
	for _, s := range sales {
		row := make([]string, len(columns))
		for i, col := range columns {
			switch col {
			case c.ID:
				row[i] = strconv.FormatInt(s.ID, 10)
			case c.CustomerID:
				row[i] = strconv.FormatInt(s.CustomerID, 10)
			case c.Date:
				row[i] = s.Date
			case c.Category:
				row[i] = s.Category
			case c.Value:
				row[i] = formatValue(s)
			default:
				row[i] = s.Extra[col]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// formatValue writes at least two decimal places without dropping any precision
// the value already had. A missing value stays an empty cell.
func formatValue(s *sale.Sale) string {
	if !s.Value.Valid {
		return ""
	}
	places := int32(2)
	if exp := -s.Value.Decimal.Exponent(); exp > places {
		places = exp
	}
	return s.Value.Decimal.StringFixed(places)
}

func (k CollectionKind) String() string {
	switch k {
	case Customers:
		return "customers"
	case Sales:
		return "sales"
	default:
		return fmt.Sprintf("collection(%d)", int(k))
	}
}
