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

const logColumns = `id, customer_id, customer_name, employee_id, employee_name, type, outcome,
        subject, description, duration, follow_up_required, follow_up_date, date, created_at`

type logRepository struct {
	pool *pgxpool.Pool
}

// NewLogRepository returns a Postgres-backed implementation.
func NewLogRepository(pool *pgxpool.Pool) LogRepository {
	return &logRepository{pool: pool}
}

func (r *logRepository) Create(ctx context.Context, l *domain.DailyLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	query := `INSERT INTO daily_logs (` + logColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW())
        RETURNING created_at`
	args := append([]any{l.ID}, logValues(l)...)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&l.CreatedAt); err != nil {
		return fmt.Errorf("insert daily log: %w", err)
	}
	return nil
}

func (r *logRepository) Update(ctx context.Context, l *domain.DailyLog) error {
	const query = `
        UPDATE daily_logs SET customer_id=$2, customer_name=$3, employee_id=$4, employee_name=$5,
            type=$6, outcome=$7, subject=$8, description=$9, duration=$10,
            follow_up_required=$11, follow_up_date=$12, date=$13
        WHERE id=$1`
	args := append([]any{l.ID}, logValues(l)...)
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update daily log: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *logRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM daily_logs WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete daily log: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *logRepository) GetByID(ctx context.Context, id string) (*domain.DailyLog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `SELECT ` + logColumns + ` FROM daily_logs WHERE id=$1`
	l, err := scanLog(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get daily log: %w", err)
	}
	return l, nil
}

func (r *logRepository) List(ctx context.Context, q LogQuery) ([]domain.DailyLog, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if q.CustomerID != nil {
		args = append(args, *q.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if q.EmployeeID != nil {
		args = append(args, *q.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM daily_logs WHERE %s ORDER BY created_at DESC`,
		logColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	defer rows.Close()

	result := []domain.DailyLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	return result, rows.Err()
}

func logValues(l *domain.DailyLog) []any {
	return []any{
		l.CustomerID, l.CustomerName, l.EmployeeID, l.EmployeeName, string(l.Type), string(l.Outcome),
		l.Subject, l.Description, l.Duration, l.FollowUpRequired, l.FollowUpDate, l.Date,
	}
}

func scanLog(row rowScanner) (*domain.DailyLog, error) {
	var l domain.DailyLog
	var typ, outcome string
	if err := row.Scan(
		&l.ID, &l.CustomerID, &l.CustomerName, &l.EmployeeID, &l.EmployeeName, &typ, &outcome,
		&l.Subject, &l.Description, &l.Duration, &l.FollowUpRequired, &l.FollowUpDate, &l.Date, &l.CreatedAt,
	); err != nil {
		return nil, err
	}
	l.Type = domain.ActivityType(typ)
	l.Outcome = domain.Outcome(outcome)
	return &l, nil
}
