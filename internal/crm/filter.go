package crm

import (
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/travel-crm/internal/domain"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

// FollowUpState selects logs by where their follow-up stands.
type FollowUpState string

const (
	FollowUpRequired FollowUpState = "required"
	FollowUpUpcoming FollowUpState = "upcoming"
	FollowUpOverdue  FollowUpState = "overdue"
)

// Filter is a validated set of optional criteria. A nil field (or an empty
// SearchTerm) places no constraint. Build it with ParseFilter so that "all" and
// blank inputs never reach the predicates.
type Filter struct {
	SearchTerm       string
	CustomerStatus   *domain.CustomerStatus
	DateFrom         *string
	DateTo           *string
	ActivityType     *domain.ActivityType
	Outcome          *domain.Outcome
	FollowUpRequired *bool
	EmployeeID       *string
	FollowUp         *FollowUpState

	// AsOf is the reference time for the upcoming/overdue follow-up states.
	AsOf time.Time
}

// RawFilter is the unvalidated option bag received from a caller.
type RawFilter struct {
	SearchTerm       string
	CustomerStatus   string
	DateFrom         string
	DateTo           string
	ActivityType     string
	Outcome          string
	FollowUpRequired string
	EmployeeID       string
	FollowUp         string
}

// ParseFilter validates raw options once. Blank values and the literal "all"
// mean no filtering.
func ParseFilter(raw RawFilter, now time.Time) (Filter, error) {
	f := Filter{AsOf: now}
	details := map[string]any{}

	if strings.TrimSpace(raw.SearchTerm) != "" {
		f.SearchTerm = raw.SearchTerm
	}
	if v, ok := present(raw.CustomerStatus); ok {
		status, valid := domain.ParseCustomerStatus(v)
		if valid {
			f.CustomerStatus = &status
		} else {
			details["customerStatus"] = "must be one of active, dead, prospect, completed"
		}
	}
	if v, ok := present(raw.DateFrom); ok {
		if isDate(v) {
			f.DateFrom = &v
		} else {
			details["dateFrom"] = "must be YYYY-MM-DD"
		}
	}
	if v, ok := present(raw.DateTo); ok {
		if isDate(v) {
			f.DateTo = &v
		} else {
			details["dateTo"] = "must be YYYY-MM-DD"
		}
	}
	if v, ok := present(raw.ActivityType); ok {
		t, valid := domain.ParseActivityType(v)
		if valid {
			f.ActivityType = &t
		} else {
			details["activityType"] = "must be one of call, email, meeting, note"
		}
	}
	if v, ok := present(raw.Outcome); ok {
		o, valid := domain.ParseOutcome(v)
		if valid {
			f.Outcome = &o
		} else {
			details["outcome"] = "must be one of positive, neutral, negative"
		}
	}
	if v, ok := present(raw.FollowUpRequired); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			f.FollowUpRequired = &b
		} else {
			details["followUpRequired"] = "must be true or false"
		}
	}
	if v, ok := present(raw.EmployeeID); ok {
		f.EmployeeID = &v
	}
	if v, ok := present(raw.FollowUp); ok {
		switch s := FollowUpState(strings.ToLower(v)); s {
		case FollowUpRequired, FollowUpUpcoming, FollowUpOverdue:
			f.FollowUp = &s
		default:
			details["followUp"] = "must be one of required, upcoming, overdue"
		}
	}

	if len(details) > 0 {
		return Filter{}, apperrors.NewValidationError("invalid filter", details)
	}
	return f, nil
}

// IsZero reports whether the filter places no constraint at all.
func (f Filter) IsZero() bool {
	return f.SearchTerm == "" &&
		f.CustomerStatus == nil &&
		f.DateFrom == nil &&
		f.DateTo == nil &&
		f.ActivityType == nil &&
		f.Outcome == nil &&
		f.FollowUpRequired == nil &&
		f.EmployeeID == nil &&
		f.FollowUp == nil
}

// FilterCustomers keeps the customers matching the search term and status.
// Log-only options are ignored. Order is preserved.
func FilterCustomers(customers []domain.Customer, f Filter) []domain.Customer {
	if f.SearchTerm == "" && f.CustomerStatus == nil {
		return customers
	}
	term := strings.ToLower(f.SearchTerm)
	return keep(customers, func(c *domain.Customer) bool {
		if term != "" && !anyContains(term, c.Name, c.Email, c.Company, c.Phone) {
			return false
		}
		if f.CustomerStatus != nil && c.Status != *f.CustomerStatus {
			return false
		}
		return true
	})
}

// FilterLogs keeps the logs matching every log option. CustomerStatus is
// ignored. Order is preserved.
func FilterLogs(logs []domain.DailyLog, f Filter) []domain.DailyLog {
	g := f
	g.CustomerStatus = nil
	if g.IsZero() {
		return logs
	}
	term := strings.ToLower(f.SearchTerm)
	return keep(logs, func(l *domain.DailyLog) bool {
		if term != "" && !anyContains(term, l.CustomerName, l.Subject, l.Description) {
			return false
		}
		if f.DateFrom != nil && l.Date < *f.DateFrom {
			return false
		}
		if f.DateTo != nil && l.Date > *f.DateTo {
			return false
		}
		if f.ActivityType != nil && l.Type != *f.ActivityType {
			return false
		}
		if f.Outcome != nil && l.Outcome != *f.Outcome {
			return false
		}
		if f.FollowUpRequired != nil && l.FollowUpRequired != *f.FollowUpRequired {
			return false
		}
		if f.EmployeeID != nil && l.EmployeeID != *f.EmployeeID {
			return false
		}
		if f.FollowUp != nil && !matchesFollowUp(l, *f.FollowUp, f.AsOf) {
			return false
		}
		return true
	})
}

func matchesFollowUp(l *domain.DailyLog, state FollowUpState, now time.Time) bool {
	switch state {
	case FollowUpRequired:
		return l.FollowUpRequired
	case FollowUpUpcoming:
		return l.HasFollowUpDate() && !followUpOverdue(*l.FollowUpDate, now)
	case FollowUpOverdue:
		return l.HasFollowUpDate() && followUpOverdue(*l.FollowUpDate, now)
	default:
		return true
	}
}

func anyContains(term string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func present(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "all") {
		return "", false
	}
	return v, true
}

func isDate(v string) bool {
	_, err := time.Parse(domain.DateLayout, v)
	return err == nil
}
