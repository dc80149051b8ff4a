package bar

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidPriceRange = errors.New("min_price cannot exceed max_price")

type Service interface {
	List(ctx context.Context) ([]Bar, error)
	Get(ctx context.Context, id int) (*Bar, error)
	Create(ctx context.Context, req CreateBarRequest) (*Bar, error)
	Update(ctx context.Context, id int, req UpdateBarRequest) (*Bar, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Bar, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) Get(ctx context.Context, id int) (*Bar, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateBarRequest) (*Bar, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, ErrInvalidPriceRange
	}
	return s.repo.Create(ctx, req)
}

func (s *service) Update(ctx context.Context, id int, req UpdateBarRequest) (*Bar, error) {
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, ErrInvalidPriceRange
	}
	return s.repo.Update(ctx, id, req)
}
