package service

import (
	"context"
	"time"

	"campus_lost_found/internal/logger"
	"campus_lost_found/internal/models"
	"campus_lost_found/internal/repository"
	"campus_lost_found/internal/storage"
)

// Authorization covers accounts and browser sessions.
type Authorization interface {
	Register(ctx context.Context, email, password, passwordConfirm string) (int, error)
	Login(ctx context.Context, email, password string) (string, error)
	ParseSession(token string) (string, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// Items covers the lost/found postings.
type Items interface {
	List(ctx context.Context, filter string) ([]models.Item, error)
	Search(ctx context.Context, query string) ([]models.Item, error)
	Get(ctx context.Context, id int) (*models.Item, error)
	Create(ctx context.Context, in ItemInput, ownerEmail string) (*models.Item, error)
	Update(ctx context.Context, id int, in ItemInput) (*models.Item, error)
	Delete(ctx context.Context, id int) error
}

// ImageRemover deletes stored images. Removal is best-effort; the result is informational.
type ImageRemover interface {
	Remove(name string) storage.RemoveResult
}

// SessionConfig controls how session tokens are signed.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Items
}

// NewService wires repository layer and image storage into concrete services.
func NewService(repos *repository.Repository, images ImageRemover, session SessionConfig, log *logger.Logger) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, session),
		Items:         NewItemService(repos.Items, images, log),
	}
}
