package domain

import (
	"strings"
	"time"
)

// CustomerStatus enumerates the sales state of a customer.
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusDead      CustomerStatus = "dead"
	CustomerStatusProspect  CustomerStatus = "prospect"
	CustomerStatusCompleted CustomerStatus = "completed"
)

// Unassigned is the owner value of a customer nobody has picked up yet.
// It is a real value, distinct from an owner that was never recorded.
const Unassigned = "unassigned"

// ParseCustomerStatus resolves a status case-insensitively. The legacy "Dead"
// spelling maps to CustomerStatusDead.
func ParseCustomerStatus(raw string) (CustomerStatus, bool) {
	switch CustomerStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case CustomerStatusActive:
		return CustomerStatusActive, true
	case CustomerStatusDead:
		return CustomerStatusDead, true
	case CustomerStatusProspect:
		return CustomerStatusProspect, true
	case CustomerStatusCompleted:
		return CustomerStatusCompleted, true
	default:
		return "", false
	}
}

// Customer is a traveller (or group lead) handled by the agency.
type Customer struct {
	ID          string         `json:"id" bson:"_id"`
	Name        string         `json:"name" bson:"name"`
	Email       string         `json:"email" bson:"email"`
	Phone       string         `json:"phone" bson:"phone"`
	CountryCode string         `json:"countryCode,omitempty" bson:"countryCode,omitempty"`
	Company     string         `json:"company" bson:"company"`
	Status      CustomerStatus `json:"status" bson:"status"`

	AssignedEmployeeID   string `json:"assignedEmployeeId" bson:"assignedEmployeeId"`
	AssignedEmployeeName string `json:"assignedEmployeeName,omitempty" bson:"assignedEmployeeName,omitempty"`

	DOB         string `json:"dob,omitempty" bson:"dob,omitempty"`
	Gender      string `json:"gender,omitempty" bson:"gender,omitempty"`
	Nationality string `json:"nationality,omitempty" bson:"nationality,omitempty"`

	Destination    string `json:"destination,omitempty" bson:"destination,omitempty"`
	Purpose        string `json:"purpose,omitempty" bson:"purpose,omitempty"`
	TravelFrom     string `json:"travelFrom,omitempty" bson:"travelFrom,omitempty"`
	TravelTo       string `json:"travelTo,omitempty" bson:"travelTo,omitempty"`
	Budget         string `json:"budget,omitempty" bson:"budget,omitempty"`
	TravelType     string `json:"travelType,omitempty" bson:"travelType,omitempty"`
	Hotel          string `json:"hotel,omitempty" bson:"hotel,omitempty"`
	Service        string `json:"service,omitempty" bson:"service,omitempty"`
	Insurance      bool   `json:"insurance" bson:"insurance"`
	Pickup         bool   `json:"pickup" bson:"pickup"`
	Tours          bool   `json:"tours" bson:"tours"`
	PreviousVisits string `json:"previousVisits,omitempty" bson:"previousVisits,omitempty"`

	IsTravelling        bool   `json:"isTravelling" bson:"isTravelling"`
	TravellingStartDate string `json:"travellingStartDate,omitempty" bson:"travellingStartDate,omitempty"`

	PassportNumber      string `json:"passportNumber,omitempty" bson:"passportNumber,omitempty"`
	PassportExpiry      string `json:"passportExpiry,omitempty" bson:"passportExpiry,omitempty"`
	VisaStatus          string `json:"visaStatus,omitempty" bson:"visaStatus,omitempty"`
	EmergencyContact    string `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
	EmergencyPhone      string `json:"emergencyPhone,omitempty" bson:"emergencyPhone,omitempty"`
	SpecialRequirements string `json:"specialRequirements,omitempty" bson:"specialRequirements,omitempty"`

	GroupTravelers []string `json:"groupTravelers" bson:"groupTravelers"`

	CreatedBy   string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	LastContact string    `json:"lastContact,omitempty" bson:"lastContact,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Normalize fills the defaults every stored customer must carry.
func (c *Customer) Normalize() {
	if strings.TrimSpace(c.AssignedEmployeeID) == "" {
		c.AssignedEmployeeID = Unassigned
		c.AssignedEmployeeName = ""
	}
	if c.Status == "" {
		c.Status = CustomerStatusProspect
	} else if status, ok := ParseCustomerStatus(string(c.Status)); ok {
		c.Status = status
	}
	if c.GroupTravelers == nil {
		c.GroupTravelers = []string{}
	}
}

// IsUnassigned reports whether no employee owns the customer.
func (c *Customer) IsUnassigned() bool {
	return c.AssignedEmployeeID == Unassigned
}
