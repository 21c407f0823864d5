package sale

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Predicate func(Sale) bool

func All() Predicate {
	return func(Sale) bool { return true }
}

func ByID(id int64) Predicate {
	return func(s Sale) bool { return s.ID == id }
}

func ForCustomer(customerID int64) Predicate {
	return func(s Sale) bool { return s.CustomerID == customerID }
}

func OnDate(date string) Predicate {
	date = strings.TrimSpace(date)
	return func(s Sale) bool { return s.Date == date }
}

func InCategory(category string) Predicate {
	category = strings.TrimSpace(category)
	return func(s Sale) bool { return strings.EqualFold(s.Category, category) }
}

func ValueAtLeast(min decimal.Decimal) Predicate {
	return func(s Sale) bool { return s.Value.Valid && s.Value.Decimal.GreaterThanOrEqual(min) }
}
