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

type customerStore struct {
	coll *mongo.Collection
}

func (s *customerStore) Create(ctx context.Context, c *domain.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	if _, err := s.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (s *customerStore) Update(ctx context.Context, c *domain.Customer) error {
	c.UpdatedAt = now()
	return replaceByID(ctx, s.coll, c.ID, c)
}

func (s *customerStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.coll, id)
}

func (s *customerStore) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := findOne[domain.Customer](ctx, s.coll, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	c.Normalize()
	return c, nil
}

func (s *customerStore) List(ctx context.Context, q repository.CustomerQuery) ([]domain.Customer, error) {
	filter := bson.M{}
	if q.AssignedEmployeeID != nil {
		filter["assignedEmployeeId"] = *q.AssignedEmployeeID
	}
	out, err := findAll[domain.Customer](ctx, s.coll, filter, newestFirst())
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}
