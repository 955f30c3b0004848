package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/travel-crm/internal/domain"
)

const customerColumns = `id, name, email, phone, country_code, company, status,
        assigned_employee_id, assigned_employee_name, dob, gender, nationality,
        destination, purpose, travel_from, travel_to, budget, travel_type, hotel, service,
        insurance, pickup, tours, previous_visits, is_travelling, travelling_start_date,
        passport_number, passport_expiry, visa_status, emergency_contact, emergency_phone,
        special_requirements, group_travelers, created_by, last_contact, created_at, updated_at`

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `INSERT INTO customers (` + customerColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
                $21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,NOW(),NOW())
        RETURNING created_at, updated_at`
	args := append([]any{c.ID}, customerValues(c)...)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	const query = `
        UPDATE customers SET name=$2, email=$3, phone=$4, country_code=$5, company=$6, status=$7,
            assigned_employee_id=$8, assigned_employee_name=$9, dob=$10, gender=$11, nationality=$12,
            destination=$13, purpose=$14, travel_from=$15, travel_to=$16, budget=$17, travel_type=$18,
            hotel=$19, service=$20, insurance=$21, pickup=$22, tours=$23, previous_visits=$24,
            is_travelling=$25, travelling_start_date=$26, passport_number=$27, passport_expiry=$28,
            visa_status=$29, emergency_contact=$30, emergency_phone=$31, special_requirements=$32,
            group_travelers=$33, created_by=$34, last_contact=$35, updated_at=NOW()
        WHERE id=$1
        RETURNING updated_at`
	args := append([]any{c.ID}, customerValues(c)...)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *customerRepository) List(ctx context.Context, q CustomerQuery) ([]domain.Customer, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if q.AssignedEmployeeID != nil {
		args = append(args, *q.AssignedEmployeeID)
		clauses = append(clauses, fmt.Sprintf("assigned_employee_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM customers WHERE %s ORDER BY created_at DESC`,
		customerColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	result := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

// customerValues returns every column after id and before the timestamps, in
// customerColumns order.
func customerValues(c *domain.Customer) []any {
	travellers := c.GroupTravelers
	if travellers == nil {
		travellers = []string{}
	}
	return []any{
		c.Name, c.Email, c.Phone, c.CountryCode, c.Company, string(c.Status),
		c.AssignedEmployeeID, c.AssignedEmployeeName, c.DOB, c.Gender, c.Nationality,
		c.Destination, c.Purpose, c.TravelFrom, c.TravelTo, c.Budget, c.TravelType, c.Hotel, c.Service,
		c.Insurance, c.Pickup, c.Tours, c.PreviousVisits, c.IsTravelling, c.TravellingStartDate,
		c.PassportNumber, c.PassportExpiry, c.VisaStatus, c.EmergencyContact, c.EmergencyPhone,
		c.SpecialRequirements, travellers, c.CreatedBy, c.LastContact,
	}
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	var status string
	if err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.CountryCode, &c.Company, &status,
		&c.AssignedEmployeeID, &c.AssignedEmployeeName, &c.DOB, &c.Gender, &c.Nationality,
		&c.Destination, &c.Purpose, &c.TravelFrom, &c.TravelTo, &c.Budget, &c.TravelType, &c.Hotel, &c.Service,
		&c.Insurance, &c.Pickup, &c.Tours, &c.PreviousVisits, &c.IsTravelling, &c.TravellingStartDate,
		&c.PassportNumber, &c.PassportExpiry, &c.VisaStatus, &c.EmergencyContact, &c.EmergencyPhone,
		&c.SpecialRequirements, &c.GroupTravelers, &c.CreatedBy, &c.LastContact, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Status = domain.CustomerStatus(status)
	c.Normalize()
	return &c, nil
}
