package customer

import (
	"maps"
	"strings"

	"sales-records/internal/pkg/apperrors"
)

// MinID is the first id handed out to a new customer.
const MinID int64 = 100000

type Customer struct {
	ID       int64
	Name     string
	Postcode string
	Phone    string
	// Extra holds columns the file carried that have no typed field.
	Extra map[string]string
}

func NewCustomer(name, postcode, phone string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "customer name cannot be empty")
	}
	return &Customer{
		Name:     name,
		Postcode: strings.TrimSpace(postcode),
		Phone:    strings.TrimSpace(phone),
	}, nil
}

// Clone returns a copy that shares no mutable state with c.
func (c Customer) Clone() Customer {
	c.Extra = maps.Clone(c.Extra)
	return c
}
