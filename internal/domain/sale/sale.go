package sale

import (
	"maps"
	"strings"

	"sales-records/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// MinID is the first transaction id of a session.
const MinID int64 = 100000000

type Sale struct {
	ID         int64
	CustomerID int64
	Date       string
	Category   string
	// Value is invalid when the file left the value cell empty.
	Value      decimal.NullDecimal
	Extra      map[string]string
}

func NewSale(customerID int64, date, category string, value decimal.Decimal) *Sale {
	return &Sale{
		CustomerID: customerID,
		Date:       strings.TrimSpace(date),
		Category:   strings.TrimSpace(category),
		Value:      decimal.NewNullDecimal(value),
	}
}

func (s Sale) Clone() Sale {
	s.Extra = maps.Clone(s.Extra)
	return s
}

// FormatValue renders the value with two decimal places, or "" when there is none.
func (s Sale) FormatValue() string {
	if !s.Value.Valid {
		return ""
	}
	return s.Value.Decimal.StringFixed(2)
}

// ParseValue accepts plain decimal notation, optionally with a leading currency
// symbol or thousands separators ("£1,250.00").
func ParseValue(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimLeft(cleaned, "$£€")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, apperrors.NewValidationError("value", "value cannot be empty")
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError("value", "not a number: "+s)
	}
	return v, nil
}

// Categories is the allowed set of sale categories. An empty set allows anything.
type Categories []string

// Resolve returns the configured spelling of category, matched case-insensitively.
func (c Categories) Resolve(category string) (string, error) {
	category = strings.TrimSpace(category)
	if len(c) == 0 {
		return category, nil
	}
	for _, allowed := range c {
		if strings.EqualFold(allowed, category) {
			return allowed, nil
		}
	}
	return "", apperrors.NewValidationError("category",
		"must be one of: "+strings.Join(c, ", "))
}
