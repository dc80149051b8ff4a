package bar

import "context"

type Repository interface {
	Create(ctx context.Context, req CreateBarRequest) (*Bar, error)
	Update(ctx context.Context, id int, req UpdateBarRequest) (*Bar, error)
	GetByID(ctx context.Context, id int) (*Bar, error)
	GetByName(ctx context.Context, name string) (*Bar, error)
	ListActive(ctx context.Context) ([]Bar, error)
	ListActiveIDs(ctx context.Context) ([]int, error)
}
