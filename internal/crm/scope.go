// Package crm holds the pure scoping, filtering and aggregation pipeline that
// every customer and activity view runs through. Nothing here performs I/O or
// keeps state; all functions are safe to call concurrently.
package crm

import "github.com/spec-kit/travel-crm/internal/domain"

// Scoped is the part of the data set an actor may act upon.
type Scoped struct {
	Customers []domain.Customer
	Logs      []domain.DailyLog
}

// Scope narrows customers and logs to what actor may see. Admins see the input
// unchanged, employees see the customers assigned to them and the logs they
// authored. A nil actor or an unknown role sees nothing.
func Scope(actor *domain.Actor, customers []domain.Customer, logs []domain.DailyLog) Scoped {
	if actor == nil {
		return Scoped{Customers: []domain.Customer{}, Logs: []domain.DailyLog{}}
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return Scoped{Customers: nonNil(customers), Logs: nonNil(logs)}
	case domain.RoleEmployee:
		return Scoped{
			Customers: keep(customers, func(c *domain.Customer) bool { return c.AssignedEmployeeID == actor.ID }),
			Logs:      keep(logs, func(l *domain.DailyLog) bool { return l.EmployeeID == actor.ID }),
		}
	default:
		return Scoped{Customers: []domain.Customer{}, Logs: []domain.DailyLog{}}
	}
}

// ScopeCustomers is Scope for callers that only hold customers.
func ScopeCustomers(actor *domain.Actor, customers []domain.Customer) []domain.Customer {
	return Scope(actor, customers, nil).Customers
}

// ScopeLogs is Scope for callers that only hold logs.
func ScopeLogs(actor *domain.Actor, logs []domain.DailyLog) []domain.DailyLog {
	return Scope(actor, nil, logs).Logs
}

// CanAccessCustomer applies the scoping rule to a single customer.
func CanAccessCustomer(actor *domain.Actor, customer *domain.Customer) bool {
	if actor == nil || customer == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleEmployee:
		return customer.AssignedEmployeeID == actor.ID
	default:
		return false
	}
}

// CanAccessLog applies the scoping rule to a single log.
func CanAccessLog(actor *domain.Actor, log *domain.DailyLog) bool {
	if actor == nil || log == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleEmployee:
		return log.EmployeeID == actor.ID
	default:
		return false
	}
}

func keep[T any](items []T, pred func(*T) bool) []T {
	out := make([]T, 0, len(items))
	for i := range items {
		if pred(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
