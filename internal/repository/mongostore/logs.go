package mongostore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/repository"
)

type logStore struct {
	coll *mongo.Collection
}

func (s *logStore) Create(ctx context.Context, l *domain.DailyLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = now()
	if _, err := s.coll.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert daily log: %w", err)
	}
	return nil
}

func (s *logStore) Update(ctx context.Context, l *domain.DailyLog) error {
	return replaceByID(ctx, s.coll, l.ID, l)
}

func (s *logStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.coll, id)
}

func (s *logStore) GetByID(ctx context.Context, id string) (*domain.DailyLog, error) {
	return findOne[domain.DailyLog](ctx, s.coll, bson.M{"_id": id})
}

func (s *logStore) List(ctx context.Context, q repository.LogQuery) ([]domain.DailyLog, error) {
	filter := bson.M{}
	if q.CustomerID != nil {
		filter["customerId"] = *q.CustomerID
	}
	if q.EmployeeID != nil {
		filter["employeeId"] = *q.EmployeeID
	}
	return findAll[domain.DailyLog](ctx, s.coll, filter, newestFirst())
}
