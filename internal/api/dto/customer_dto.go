package dto

import (
	"github.com/spec-kit/travel-crm/internal/crm"
	"github.com/spec-kit/travel-crm/internal/domain"
)

// CustomerRequest is the full customer payload used by create and update.
type CustomerRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=40"`
	CountryCode string `json:"countryCode" validate:"max=8"`
	Company     string `json:"company" validate:"max=200"`
	Status      string `json:"status"`

	AssignedEmployeeID string `json:"assignedEmployeeId"`

	DOB         string `json:"dob" validate:"omitempty,date"`
	Gender      string `json:"gender"`
	Nationality string `json:"nationality"`

	Destination    string `json:"destination"`
	Purpose        string `json:"purpose"`
	TravelFrom     string `json:"travelFrom" validate:"omitempty,date"`
	TravelTo       string `json:"travelTo" validate:"omitempty,date"`
	Budget         string `json:"budget"`
	TravelType     string `json:"travelType"`
	Hotel          string `json:"hotel"`
	Service        string `json:"service"`
	Insurance      bool   `json:"insurance"`
	Pickup         bool   `json:"pickup"`
	Tours          bool   `json:"tours"`
	PreviousVisits string `json:"previousVisits"`

	IsTravelling bool `json:"isTravelling"`

	PassportNumber      string `json:"passportNumber"`
	PassportExpiry      string `json:"passportExpiry" validate:"omitempty,date"`
	VisaStatus          string `json:"visaStatus"`
	EmergencyContact    string `json:"emergencyContact"`
	EmergencyPhone      string `json:"emergencyPhone"`
	SpecialRequirements string `json:"specialRequirements"`

	GroupTravelers []string `json:"groupTravelers" validate:"omitempty,dive,max=200"`
	LastContact    string   `json:"lastContact"`
}

// ToDomain maps the payload onto a customer record.
func (r CustomerRequest) ToDomain() domain.Customer {
	return domain.Customer{
		Name:                r.Name,
		Email:               r.Email,
		Phone:               r.Phone,
		CountryCode:         r.CountryCode,
		Company:             r.Company,
		Status:              domain.CustomerStatus(r.Status),
		AssignedEmployeeID:  r.AssignedEmployeeID,
		DOB:                 r.DOB,
		Gender:              r.Gender,
		Nationality:         r.Nationality,
		Destination:         r.Destination,
		Purpose:             r.Purpose,
		TravelFrom:          r.TravelFrom,
		TravelTo:            r.TravelTo,
		Budget:              r.Budget,
		TravelType:          r.TravelType,
		Hotel:               r.Hotel,
		Service:             r.Service,
		Insurance:           r.Insurance,
		Pickup:              r.Pickup,
		Tours:               r.Tours,
		PreviousVisits:      r.PreviousVisits,
		IsTravelling:        r.IsTravelling,
		PassportNumber:      r.PassportNumber,
		PassportExpiry:      r.PassportExpiry,
		VisaStatus:          r.VisaStatus,
		EmergencyContact:    r.EmergencyContact,
		EmergencyPhone:      r.EmergencyPhone,
		SpecialRequirements: r.SpecialRequirements,
		GroupTravelers:      r.GroupTravelers,
		LastContact:         r.LastContact,
	}
}

// AssignRequest payload for PUT /customers/:id/assign. An empty id or
// "unassigned" releases the customer.
type AssignRequest struct {
	EmployeeID string `json:"employeeId"`
}

// TravellingRequest payload for PUT /customers/:id/travelling. A missing flag
// means true.
type TravellingRequest struct {
	IsTravelling *bool `json:"isTravelling"`
}

// LogRequest is the activity log payload used by create and update.
type LogRequest struct {
	Type             string  `json:"type" validate:"omitempty,oneof=call email meeting note"`
	Outcome          string  `json:"outcome" validate:"omitempty,oneof=positive neutral negative"`
	Subject          string  `json:"subject" validate:"required,max=300"`
	Description      string  `json:"description"`
	Duration         *int    `json:"duration" validate:"omitempty,min=0"`
	FollowUpRequired bool    `json:"followUpRequired"`
	FollowUpDate     *string `json:"followUpDate"`
	Date             string  `json:"date" validate:"omitempty,date"`
}

// ToDomain maps the payload onto a log record.
func (r LogRequest) ToDomain() domain.DailyLog {
	return domain.DailyLog{
		Type:             domain.ActivityType(r.Type),
		Outcome:          domain.Outcome(r.Outcome),
		Subject:          r.Subject,
		Description:      r.Description,
		Duration:         r.Duration,
		FollowUpRequired: r.FollowUpRequired,
		FollowUpDate:     r.FollowUpDate,
		Date:             r.Date,
	}
}

// FilterQuery holds the query string options shared by list and dashboard
// endpoints.
type FilterQuery struct {
	Search           string `query:"search"`
	Status           string `query:"status"`
	DateFrom         string `query:"dateFrom"`
	DateTo           string `query:"dateTo"`
	Type             string `query:"type"`
	Outcome          string `query:"outcome"`
	FollowUpRequired string `query:"followUpRequired"`
	EmployeeID       string `query:"employeeId"`
	FollowUp         string `query:"followUp"`
}

// Raw converts the query into the unvalidated filter bag.
func (q FilterQuery) Raw() crm.RawFilter {
	return crm.RawFilter{
		SearchTerm:       q.Search,
		CustomerStatus:   q.Status,
		DateFrom:         q.DateFrom,
		DateTo:           q.DateTo,
		ActivityType:     q.Type,
		Outcome:          q.Outcome,
		FollowUpRequired: q.FollowUpRequired,
		EmployeeID:       q.EmployeeID,
		FollowUp:         q.FollowUp,
	}
}

// SearchQuery holds GET /search options.
type SearchQuery struct {
	Q     string `query:"q"`
	Limit int    `query:"limit"`
}
