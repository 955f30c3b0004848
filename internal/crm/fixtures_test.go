package crm

import (
	"time"

	"github.com/spec-kit/travel-crm/internal/domain"
)

var testNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func customer(id, owner string, status domain.CustomerStatus) domain.Customer {
	return domain.Customer{
		ID:                 id,
		Name:               "Customer " + id,
		Email:              id + "@example.com",
		Phone:              "555-01" + id,
		Company:            "Company " + id,
		Status:             status,
		AssignedEmployeeID: owner,
		GroupTravelers:     []string{},
	}
}

func dailyLog(id, employee, date string, typ domain.ActivityType, outcome domain.Outcome) domain.DailyLog {
	return domain.DailyLog{
		ID:           id,
		CustomerID:   "c-" + id,
		CustomerName: "Customer " + id,
		EmployeeID:   employee,
		EmployeeName: "Employee " + employee,
		Type:         typ,
		Outcome:      outcome,
		Subject:      "Subject " + id,
		Description:  "Description " + id,
		Date:         date,
		CreatedAt:    testNow.Add(-time.Hour),
	}
}

func withFollowUp(l domain.DailyLog, date string) domain.DailyLog {
	l.FollowUpRequired = true
	l.FollowUpDate = strPtr(date)
	return l
}

func sampleCustomers() []domain.Customer {
	return []domain.Customer{
		customer("1", "e1", domain.CustomerStatusActive),
		customer("2", "e2", domain.CustomerStatusProspect),
		customer("3", "e1", domain.CustomerStatusDead),
		customer("4", domain.Unassigned, domain.CustomerStatusActive),
		customer("5", "e2", domain.CustomerStatusCompleted),
	}
}

func sampleLogs() []domain.DailyLog {
	return []domain.DailyLog{
		dailyLog("1", "e1", "2024-03-15", domain.ActivityCall, domain.OutcomePositive),
		dailyLog("2", "e2", "2024-03-14", domain.ActivityEmail, domain.OutcomeNeutral),
		withFollowUp(dailyLog("3", "e1", "2024-03-01", domain.ActivityMeeting, domain.OutcomeNegative), "2024-03-10"),
		withFollowUp(dailyLog("4", "e2", "2024-02-01", domain.ActivityNote, domain.OutcomePositive), "2024-03-20"),
		dailyLog("5", "e1", "2024-01-01", domain.ActivityCall, domain.OutcomeNeutral),
	}
}
