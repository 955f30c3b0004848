package domain

import (
	"strings"
	"time"
)

// ActivityType classifies an activity log.
type ActivityType string

const (
	ActivityCall    ActivityType = "call"
	ActivityEmail   ActivityType = "email"
	ActivityMeeting ActivityType = "meeting"
	ActivityNote    ActivityType = "note"
)

// Outcome is the sentiment of a logged interaction.
type Outcome string

const (
	OutcomePositive Outcome = "positive"
	OutcomeNeutral  Outcome = "neutral"
	OutcomeNegative Outcome = "negative"
)

// ParseActivityType resolves an activity type case-insensitively.
func ParseActivityType(raw string) (ActivityType, bool) {
	switch t := ActivityType(strings.ToLower(strings.TrimSpace(raw))); t {
	case ActivityCall, ActivityEmail, ActivityMeeting, ActivityNote:
		return t, true
	default:
		return "", false
	}
}

// ParseOutcome resolves an outcome case-insensitively.
func ParseOutcome(raw string) (Outcome, bool) {
	switch o := Outcome(strings.ToLower(strings.TrimSpace(raw))); o {
	case OutcomePositive, OutcomeNeutral, OutcomeNegative:
		return o, true
	default:
		return "", false
	}
}

// DateLayout is the wire format of business dates (log date, follow-ups, travel dates).
const DateLayout = "2006-01-02"

// DailyLog is one recorded interaction between an employee and a customer.
type DailyLog struct {
	ID               string       `json:"id" bson:"_id"`
	CustomerID       string       `json:"customerId" bson:"customerId"`
	CustomerName     string       `json:"customerName" bson:"customerName"`
	EmployeeID       string       `json:"employeeId" bson:"employeeId"`
	EmployeeName     string       `json:"employeeName" bson:"employeeName"`
	Type             ActivityType `json:"type" bson:"type"`
	Outcome          Outcome      `json:"outcome" bson:"outcome"`
	Subject          string       `json:"subject" bson:"subject"`
	Description      string       `json:"description" bson:"description"`
	Duration         *int         `json:"duration,omitempty" bson:"duration,omitempty"`
	FollowUpRequired bool         `json:"followUpRequired" bson:"followUpRequired"`
	FollowUpDate     *string      `json:"followUpDate" bson:"followUpDate"`
	Date             string       `json:"date" bson:"date"`
	CreatedAt        time.Time    `json:"createdAt" bson:"createdAt"`
}

// Normalize applies defaults and drops a follow-up date that has no follow-up.
func (l *DailyLog) Normalize() {
	if l.Type == "" {
		l.Type = ActivityNote
	}
	if l.Outcome == "" {
		l.Outcome = OutcomeNeutral
	}
	if !l.FollowUpRequired {
		l.FollowUpDate = nil
	} else if l.FollowUpDate != nil && strings.TrimSpace(*l.FollowUpDate) == "" {
		l.FollowUpDate = nil
	}
}

// HasFollowUpDate reports whether a follow-up is both required and scheduled.
func (l *DailyLog) HasFollowUpDate() bool {
	return l.FollowUpRequired && l.FollowUpDate != nil && *l.FollowUpDate != ""
}
