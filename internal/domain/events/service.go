package events

import (
	"context"
	"fmt"
)

type Service struct {
	repo EventRepository
}

func NewService(repo EventRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, params EventCreateParams) (*Event, error) {
	if params.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be greater than 0")
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) List(ctx context.Context) ([]EventSummary, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}
