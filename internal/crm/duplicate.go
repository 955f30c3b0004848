package crm

import (
	"strings"

	"github.com/spec-kit/travel-crm/internal/domain"
)

// DuplicateField names the attribute two customers collide on.
type DuplicateField string

const (
	DuplicateEmail DuplicateField = "email"
	DuplicatePhone DuplicateField = "phone"
)

// Duplicate describes an existing customer that collides with a candidate.
type Duplicate struct {
	Field    DuplicateField
	Customer domain.Customer
}

// FindDuplicate looks for another customer sharing the candidate's email
// (case-insensitive) or phone number within the same country code. The
// candidate's own record is skipped so updates do not collide with themselves.
func FindDuplicate(customers []domain.Customer, candidate domain.Customer) (Duplicate, bool) {
	email := strings.ToLower(strings.TrimSpace(candidate.Email))
	phone := digits(candidate.Phone)
	for i := range customers {
		c := &customers[i]
		if candidate.ID != "" && c.ID == candidate.ID {
			continue
		}
		if email != "" && strings.ToLower(strings.TrimSpace(c.Email)) == email {
			return Duplicate{Field: DuplicateEmail, Customer: *c}, true
		}
		if phone != "" && digits(c.Phone) == phone && c.CountryCode == candidate.CountryCode {
			return Duplicate{Field: DuplicatePhone, Customer: *c}, true
		}
	}
	return Duplicate{}, false
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
