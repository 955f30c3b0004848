package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/travel-crm/internal/crm"
	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/events"
	"github.com/spec-kit/travel-crm/internal/export"
	"github.com/spec-kit/travel-crm/internal/repository"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

// CustomerService encapsulates customer and activity log workflows. Records
// outside the actor's scope are reported as not found.
type CustomerService struct {
	customers  repository.CustomerRepository
	logs       repository.LogRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

// CustomerDependencies groups required repositories.
type CustomerDependencies struct {
	CustomerRepo repository.CustomerRepository
	LogRepo      repository.LogRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        Clock
}

// NewCustomerService builds a CustomerService instance.
func NewCustomerService(deps CustomerDependencies) *CustomerService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customers:  deps.CustomerRepo,
		logs:       deps.LogRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        deps.Clock.orNow(),
	}
}

// CustomerDetail is a customer together with the activity logs the actor may see.
type CustomerDetail struct {
	domain.Customer
	Logs []domain.DailyLog `json:"logs"`
}

// List returns the actor's customers matching the search term and status.
func (s *CustomerService) List(ctx context.Context, actor *domain.Actor, raw crm.RawFilter) ([]domain.Customer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	filter, err := crm.ParseFilter(raw, s.now())
	if err != nil {
		return nil, err
	}
	customers, err := s.scopedCustomers(ctx, actor)
	if err != nil {
		return nil, err
	}
	return crm.FilterCustomers(customers, filter), nil
}

// Travelling returns the actor's customers currently on a trip.
func (s *CustomerService) Travelling(ctx context.Context, actor *domain.Actor) ([]domain.Customer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	customers, err := s.scopedCustomers(ctx, actor)
	if err != nil {
		return nil, err
	}
	return crm.Travelling(customers), nil
}

// Get returns one customer with its logs.
func (s *CustomerService) Get(ctx context.Context, actor *domain.Actor, id string) (*CustomerDetail, error) {
	customer, err := s.accessibleCustomer(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.List(ctx, repository.LogQuery{CustomerID: &customer.ID})
	if err != nil {
		return nil, fmt.Errorf("list customer logs: %w", err)
	}
	return &CustomerDetail{Customer: *customer, Logs: crm.ScopeLogs(actor, logs)}, nil
}

// Create stores a new customer. Employees always own what they create;
// administrators may pick an owner or leave the customer unassigned.
func (s *CustomerService) Create(ctx context.Context, actor *domain.Actor, in domain.Customer) (*domain.Customer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	customer := in
	customer.ID = ""
	customer.CreatedBy = actor.ID
	customer.IsTravelling = false
	customer.TravellingStartDate = ""

	if actor.IsAdmin() {
		if err := s.resolveAssignee(ctx, &customer, in.AssignedEmployeeID); err != nil {
			return nil, err
		}
	} else {
		customer.AssignedEmployeeID = actor.ID
		customer.AssignedEmployeeName = actor.Name
	}
	if err := prepareCustomer(&customer); err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, customer); err != nil {
		return nil, err
	}

	if err := s.customers.Create(ctx, &customer); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventCustomerCreated, customer.ID, actor, nil))
	return &customer, nil
}

// Update replaces a customer's editable fields. Identity, creation data and,
// for employees, the assignment are kept from the stored record.
func (s *CustomerService) Update(ctx context.Context, actor *domain.Actor, id string, in domain.Customer) (*domain.Customer, error) {
	existing, err := s.accessibleCustomer(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	customer := in
	customer.ID = existing.ID
	customer.CreatedBy = existing.CreatedBy
	customer.CreatedAt = existing.CreatedAt
	if customer.LastContact == "" {
		customer.LastContact = existing.LastContact
	}
	if customer.IsTravelling && customer.TravellingStartDate == "" {
		customer.TravellingStartDate = existing.TravellingStartDate
	}

	reassigned := false
	switch {
	case !actor.IsAdmin(), strings.TrimSpace(in.AssignedEmployeeID) == "":
		customer.AssignedEmployeeID = existing.AssignedEmployeeID
		customer.AssignedEmployeeName = existing.AssignedEmployeeName
	default:
		if err := s.resolveAssignee(ctx, &customer, in.AssignedEmployeeID); err != nil {
			return nil, err
		}
		reassigned = customer.AssignedEmployeeID != existing.AssignedEmployeeID
	}

	if err := prepareCustomer(&customer); err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, customer); err != nil {
		return nil, err
	}
	if err := s.customers.Update(ctx, &customer); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventCustomerUpdated, customer.ID, actor, nil))
	if reassigned {
		publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventCustomerAssigned, customer.ID, actor, events.CustomerAssignedPayload{
			PreviousEmployeeID: existing.AssignedEmployeeID,
			EmployeeID:         customer.AssignedEmployeeID,
		}))
	}
	return &customer, nil
}

// Delete removes a customer. Its logs are kept.
func (s *CustomerService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	customer, err := s.accessibleCustomer(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, customer.ID); err != nil {
		return err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventCustomerDeleted, customer.ID, actor, nil))
	return nil
}

// Assign hands a customer to an employee. An empty id or "unassigned"
// releases it.
func (s *CustomerService) Assign(ctx context.Context, actor *domain.Actor, id, employeeID string) (*domain.Customer, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	customer, err := s.accessibleCustomer(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	previous := customer.AssignedEmployeeID
	if err := s.resolveAssignee(ctx, customer, employeeID); err != nil {
		return nil, err
	}
	customer.Normalize()
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventCustomerAssigned, customer.ID, actor, events.CustomerAssignedPayload{
		PreviousEmployeeID: previous,
		EmployeeID:         customer.AssignedEmployeeID,
	}))
	return customer, nil
}

// MarkTravelling flags a customer as on a trip starting today, or clears the
// flag.
func (s *CustomerService) MarkTravelling(ctx context.Context, actor *domain.Actor, id string, travelling bool) (*domain.Customer, error) {
	customer, err := s.accessibleCustomer(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	customer.IsTravelling = travelling
	if travelling {
		customer.TravellingStartDate = s.today()
	} else {
		customer.TravellingStartDate = ""
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventCustomerTravelling, customer.ID, actor, nil))
	return customer, nil
}

// AddLog records an activity against a customer the actor can see. The author
// is always the actor.
func (s *CustomerService) AddLog(ctx context.Context, actor *domain.Actor, customerID string, in domain.DailyLog) (*domain.DailyLog, error) {
	customer, err := s.accessibleCustomer(ctx, actor, customerID)
	if err != nil {
		return nil, err
	}

	entry := in
	entry.ID = ""
	entry.CustomerID = customer.ID
	entry.CustomerName = customer.Name
	entry.EmployeeID = actor.ID
	entry.EmployeeName = actor.Name
	if entry.Date == "" {
		entry.Date = s.today()
	}
	if err := prepareLog(&entry); err != nil {
		return nil, err
	}
	if err := s.logs.Create(ctx, &entry); err != nil {
		return nil, err
	}

	customer.LastContact = s.today()
	if err := s.customers.Update(ctx, customer); err != nil {
		s.logger.Warn("update last contact failed", zap.String("customer_id", customer.ID), zap.Error(err))
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventLogCreated, entry.ID, actor, logPayload(&entry)))
	return &entry, nil
}

// ListLogs returns the actor's logs matching every log filter option.
func (s *CustomerService) ListLogs(ctx context.Context, actor *domain.Actor, raw crm.RawFilter) ([]domain.DailyLog, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	filter, err := crm.ParseFilter(raw, s.now())
	if err != nil {
		return nil, err
	}
	logs, err := s.scopedLogs(ctx, actor)
	if err != nil {
		return nil, err
	}
	return crm.FilterLogs(logs, filter), nil
}

// UpdateLog replaces the editable fields of a log. Its customer, author and
// creation time are kept.
func (s *CustomerService) UpdateLog(ctx context.Context, actor *domain.Actor, id string, in domain.DailyLog) (*domain.DailyLog, error) {
	existing, err := s.accessibleLog(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	entry := in
	entry.ID = existing.ID
	entry.CustomerID = existing.CustomerID
	entry.CustomerName = existing.CustomerName
	entry.EmployeeID = existing.EmployeeID
	entry.EmployeeName = existing.EmployeeName
	entry.CreatedAt = existing.CreatedAt
	if entry.Date == "" {
		entry.Date = existing.Date
	}
	if err := prepareLog(&entry); err != nil {
		return nil, err
	}
	if err := s.logs.Update(ctx, &entry); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventLogUpdated, entry.ID, actor, logPayload(&entry)))
	return &entry, nil
}

// DeleteLog removes a log.
func (s *CustomerService) DeleteLog(ctx context.Context, actor *domain.Actor, id string) error {
	entry, err := s.accessibleLog(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.logs.Delete(ctx, entry.ID); err != nil {
		return err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventLogDeleted, entry.ID, actor, logPayload(entry)))
	return nil
}

// Export renders the customers List would return as a workbook. The caller
// closes the file.
func (s *CustomerService) Export(ctx context.Context, actor *domain.Actor, raw crm.RawFilter) (*excelize.File, string, error) {
	customers, err := s.List(ctx, actor, raw)
	if err != nil {
		return nil, "", err
	}
	f, err := export.Customers(customers)
	if err != nil {
		return nil, "", err
	}
	return f, export.Filename(s.now()), nil
}

func (s *CustomerService) scopedCustomers(ctx context.Context, actor *domain.Actor) ([]domain.Customer, error) {
	query := repository.CustomerQuery{}
	if !actor.IsAdmin() {
		query.AssignedEmployeeID = &actor.ID
	}
	customers, err := s.customers.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return crm.ScopeCustomers(actor, customers), nil
}

func (s *CustomerService) scopedLogs(ctx context.Context, actor *domain.Actor) ([]domain.DailyLog, error) {
	query := repository.LogQuery{}
	if !actor.IsAdmin() {
		query.EmployeeID = &actor.ID
	}
	logs, err := s.logs.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return crm.ScopeLogs(actor, logs), nil
}

func (s *CustomerService) accessibleCustomer(ctx context.Context, actor *domain.Actor, id string) (*domain.Customer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"id": id})
		}
		return nil, err
	}
	if !crm.CanAccessCustomer(actor, customer) {
		return nil, apperrors.NewNotFound("customer", map[string]any{"id": id})
	}
	return customer, nil
}

func (s *CustomerService) accessibleLog(ctx context.Context, actor *domain.Actor, id string) (*domain.DailyLog, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("log", map[string]any{"id": id})
		}
		return nil, err
	}
	if !crm.CanAccessLog(actor, entry) {
		return nil, apperrors.NewNotFound("log", map[string]any{"id": id})
	}
	return entry, nil
}

// resolveAssignee sets the owner of customer to employeeID, looking up the
// display name. Blank and "unassigned" release the customer.
func (s *CustomerService) resolveAssignee(ctx context.Context, customer *domain.Customer, employeeID string) error {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" || strings.EqualFold(employeeID, domain.Unassigned) {
		customer.AssignedEmployeeID = domain.Unassigned
		customer.AssignedEmployeeName = ""
		return nil
	}
	user, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewValidationError("unknown employee", map[string]any{"assignedEmployeeId": employeeID})
		}
		return err
	}
	customer.AssignedEmployeeID = user.ID
	customer.AssignedEmployeeName = user.Name
	return nil
}

func (s *CustomerService) checkDuplicate(ctx context.Context, candidate domain.Customer) error {
	all, err := s.customers.List(ctx, repository.CustomerQuery{})
	if err != nil {
		return fmt.Errorf("list customers: %w", err)
	}
	dup, found := crm.FindDuplicate(all, candidate)
	if !found {
		return nil
	}
	return apperrors.NewConflict(
		fmt.Sprintf("a customer with this %s already exists", dup.Field),
		map[string]any{"field": string(dup.Field), "customerId": dup.Customer.ID},
	)
}

func (s *CustomerService) today() string {
	return s.now().Format(domain.DateLayout)
}

func prepareCustomer(c *domain.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	details := map[string]any{}
	if c.Name == "" {
		details["name"] = "required"
	}
	if c.Status != "" {
		if _, ok := domain.ParseCustomerStatus(string(c.Status)); !ok {
			details["status"] = "must be one of active, dead, prospect, completed"
		}
	}
	for field, v := range map[string]string{
		"dob":            c.DOB,
		"travelFrom":     c.TravelFrom,
		"travelTo":       c.TravelTo,
		"passportExpiry": c.PassportExpiry,
	} {
		if v != "" && !isDate(v) {
			details[field] = "must be YYYY-MM-DD"
		}
	}
	if c.TravelFrom != "" && c.TravelTo != "" && c.TravelTo < c.TravelFrom {
		details["travelTo"] = "must not be before travelFrom"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid customer", details)
	}
	c.Normalize()
	return nil
}

func prepareLog(l *domain.DailyLog) error {
	details := map[string]any{}
	if strings.TrimSpace(l.Subject) == "" {
		details["subject"] = "required"
	}
	if l.Type != "" {
		if t, ok := domain.ParseActivityType(string(l.Type)); ok {
			l.Type = t
		} else {
			details["type"] = "must be one of call, email, meeting, note"
		}
	}
	if l.Outcome != "" {
		if o, ok := domain.ParseOutcome(string(l.Outcome)); ok {
			l.Outcome = o
		} else {
			details["outcome"] = "must be one of positive, neutral, negative"
		}
	}
	if !isDate(l.Date) {
		details["date"] = "must be YYYY-MM-DD"
	}
	if l.Duration != nil && *l.Duration < 0 {
		details["duration"] = "must not be negative"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid log", details)
	}
	l.Normalize()
	return nil
}

func logPayload(l *domain.DailyLog) events.LogPayload {
	return events.LogPayload{CustomerID: l.CustomerID, Type: l.Type, Outcome: l.Outcome}
}
