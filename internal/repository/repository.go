package repository

import (
	"context"
	"database/sql"
	"errors"

	"campus_lost_found/internal/models"
)

// ErrDuplicate is returned when a write violates a UNIQUE constraint.
var ErrDuplicate = errors.New("duplicate record")

// timeLayout keeps timestamps fixed-width so TEXT ordering matches time ordering.
const timeLayout = "2006-01-02 15:04:05.000000000"

type UserRepo interface {
	Create(ctx context.Context, u models.User) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type ItemRepo interface {
	Create(ctx context.Context, it models.Item) (int, error)
	GetByID(ctx context.Context, id int) (*models.Item, error)
	Update(ctx context.Context, it models.Item) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	List(ctx context.Context, status models.Status) ([]models.Item, error)
	Search(ctx context.Context, query string) ([]models.Item, error)
	Count(ctx context.Context) (int, error)
}

type Repository struct {
	Users UserRepo
	Items ItemRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
		Items: NewItemSQLite(db),
	}
}
