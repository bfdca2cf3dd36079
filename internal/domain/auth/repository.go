package auth

import "context"

// Repository abstracts user persistence.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	FindByUserName(ctx context.Context, userName string) (User, bool, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	Update(ctx context.Context, user User) error
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id int64) error
}
