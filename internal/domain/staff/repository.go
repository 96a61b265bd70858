package staff

import "context"

type Repository interface {
	Create(ctx context.Context, id Identity) error
	Update(ctx context.Context, id Identity) error
	GetByID(ctx context.Context, id string) (Identity, error)
	List(ctx context.Context) ([]Identity, error)
}
