package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus_lost_found/internal/logger"
	"campus_lost_found/internal/models"
	"campus_lost_found/internal/repository"
	"campus_lost_found/internal/storage"
)

// Dashboard filter values.
const (
	FilterAll   = "all"
	FilterLost  = string(models.StatusLost)
	FilterFound = string(models.StatusFound)
)

// ItemInput carries the user-editable fields of a posting. ImageFilename is
// the stored name returned by the upload handler, or "" when no new image was
// selected.
type ItemInput struct {
	Title         string
	Description   string
	Status        string
	ImageFilename string
}

func (in ItemInput) normalize() (ItemInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Status = string(models.ParseStatus(in.Status))
	if in.Title == "" {
		return in, ErrTitleRequired
	}
	return in, nil
}

type ItemService struct {
	items  repository.ItemRepo
	images ImageRemover
	log    *logger.Logger
	now    func() time.Time
}

// NewItemService builds the item store. A nil log discards removal notices.
func NewItemService(repo repository.ItemRepo, images ImageRemover, log *logger.Logger) *ItemService {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemService{items: repo, images: images, log: log, now: time.Now}
}

// NormalizeFilter maps a query value onto a known filter; anything unknown is "all".
func NormalizeFilter(filter string) string {
	switch f := strings.ToLower(strings.TrimSpace(filter)); f {
	case FilterLost, FilterFound:
		return f
	default:
		return FilterAll
	}
}

// List returns items newest first, optionally restricted to one status.
func (s *ItemService) List(ctx context.Context, filter string) ([]models.Item, error) {
	var status models.Status
	if f := NormalizeFilter(filter); f != FilterAll {
		status = models.Status(f)
	}
	return s.items.List(ctx, status)
}

// Search matches query against title and description, ignoring case.
// An empty query matches nothing.
func (s *ItemService) Search(ctx context.Context, query string) ([]models.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Item{}, nil
	}
	return s.items.Search(ctx, query)
}

func (s *ItemService) Get(ctx context.Context, id int) (*models.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return it, nil
}

func (s *ItemService) Create(ctx context.Context, in ItemInput, ownerEmail string) (*models.Item, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	it := models.Item{
		Title:         in.Title,
		Description:   in.Description,
		Status:        models.Status(in.Status),
		OwnerEmail:    ownerEmail,
		ImageFilename: in.ImageFilename,
		CreatedAt:     s.now().UTC(),
	}
	id, err := s.items.Create(ctx, it)
	if err != nil {
		return nil, err
	}
	it.ID = id
	return &it, nil
}

// Update overwrites title, description and status. When in carries a new
// image it replaces the old one, whose file is then removed. Any signed-in
// user may update any item.
func (s *ItemService) Update(ctx context.Context, id int, in ItemInput) (*models.Item, error) {
	it, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err = in.normalize()
	if err != nil {
		return nil, err
	}

	oldImage := it.ImageFilename
	it.Title = in.Title
	it.Description = in.Description
	it.Status = models.Status(in.Status)
	if in.ImageFilename != "" {
		it.ImageFilename = in.ImageFilename
	}

	ok, err := s.items.Update(ctx, *it)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if oldImage != "" && oldImage != it.ImageFilename {
		s.removeImage(oldImage)
	}
	return it, nil
}

// Delete removes the item and, best-effort, its image file.
func (s *ItemService) Delete(ctx context.Context, id int) error {
	it, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.items.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if it.HasImage() {
		s.removeImage(it.ImageFilename)
	}
	return nil
}

// removeImage deletes a replaced or orphaned image. A leftover or already
// missing file is tolerated and only logged.
func (s *ItemService) removeImage(name string) {
	if s.images == nil {
		return
	}
	if res := s.images.Remove(name); res != storage.Removed {
		s.log.Infow("image_remove_skipped", "file", name, "result", res.String())
	}
}
