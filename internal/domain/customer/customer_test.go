package customer_test

import (
	"testing"

	"sales-records/internal/domain/customer"
	"sales-records/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	cust, err := customer.NewCustomer("  Alice Wonderland ", " 90210", "555-1234 ")

	require.NoError(t, err)
	assert.NotNil(t, cust, "NewCustomer should return a non-nil customer")
	assert.Equal(t, "Alice Wonderland", cust.Name, "Customer name should be trimmed")
	assert.Equal(t, "90210", cust.Postcode)
	assert.Equal(t, "555-1234", cust.Phone)
	assert.Equal(t, int64(0), cust.ID, "ID should be initialized to 0")
	assert.Nil(t, cust.Extra)
}

func TestNewCustomer_OptionalFields(t *testing.T) {
	cust, err := customer.NewCustomer("Bob", "", "")

	require.NoError(t, err)
	assert.Empty(t, cust.Postcode)
	assert.Empty(t, cust.Phone)
}

func TestNewCustomer_EmptyName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t"} {
		cust, err := customer.NewCustomer(name, "90210", "")
		assert.Nil(t, cust)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestCustomer_Clone(t *testing.T) {
	orig := customer.Customer{ID: 100000, Name: "Alice", Extra: map[string]string{"email": "a@example.com"}}

	cp := orig.Clone()
	cp.Extra["email"] = "changed"
	cp.Name = "Changed"

	assert.Equal(t, "a@example.com", orig.Extra["email"])
	assert.Equal(t, "Alice", orig.Name)
}

func TestPredicates(t *testing.T) {
	alice := customer.Customer{ID: 100000, Name: "Alice Smith", Postcode: "SW1A 1AA", Phone: "(555) 123-4567"}
	bob := customer.Customer{ID: 100001, Name: "Bob", Postcode: "90210"}

	tests := []struct {
		name  string
		pred  customer.Predicate
		alice bool
		bob   bool
	}{
		{"all", customer.All(), true, true},
		{"by id", customer.ByID(100001), false, true},
		{"name substring case-insensitive", customer.NameContains("SMI"), true, false},
		{"empty name matches everyone", customer.NameContains(""), true, true},
		{"postcode ignores spacing", customer.ByPostcode("sw1a1aa"), true, false},
		{"postcode exact", customer.ByPostcode("90210"), false, true},
		{"phone digits only", customer.ByPhone("555.123.4567"), true, false},
		{"empty phone matches nobody", customer.ByPhone(""), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.alice, tt.pred(alice))
			assert.Equal(t, tt.bob, tt.pred(bob))
		})
	}
}
