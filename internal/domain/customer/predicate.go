package customer

import "strings"

type Predicate func(Customer) bool

func All() Predicate {
	return func(Customer) bool { return true }
}

func ByID(id int64) Predicate {
	return func(c Customer) bool { return c.ID == id }
}

// NameContains matches case-insensitively anywhere in the name.
func NameContains(s string) Predicate {
	needle := strings.ToLower(strings.TrimSpace(s))
	return func(c Customer) bool {
		return strings.Contains(strings.ToLower(c.Name), needle)
	}
}

// ByPostcode ignores case and spaces, so "SW1A 1AA" matches "sw1a1aa".
func ByPostcode(postcode string) Predicate {
	want := normalizePostcode(postcode)
	return func(c Customer) bool {
		return normalizePostcode(c.Postcode) == want
	}
}

func ByPhone(phone string) Predicate {
	want := digits(phone)
	return func(c Customer) bool {
		return want != "" && digits(c.Phone) == want
	}
}

func normalizePostcode(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, " ", ""))
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
