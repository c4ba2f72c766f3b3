package types

import "strings"

// Address is the five-field postal address required for shipping.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// MissingFields lists the empty required fields, in display order.
func (a Address) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// BillingAddress mirrors Address but may defer to the shipping address.
type BillingAddress struct {
	SameAsShipping bool    `json:"sameAsShipping"`
	Street         *string `json:"street,omitempty"`
	City           *string `json:"city,omitempty"`
	State          *string `json:"state,omitempty"`
	PostalCode     *string `json:"postalCode,omitempty"`
	Country        *string `json:"country,omitempty"`
}

// MissingFields lists empty required billing fields. When the billing address
// is the shipping address there is nothing to require.
func (b BillingAddress) MissingFields() []string {
	if b.SameAsShipping {
		return nil
	}
	var missing []string
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"street", b.Street},
		{"city", b.City},
		{"state", b.State},
		{"postalCode", b.PostalCode},
		{"country", b.Country},
	} {
		if f.value == nil || strings.TrimSpace(*f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
