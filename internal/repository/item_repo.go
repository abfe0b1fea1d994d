package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus_lost_found/internal/models"
)

type ItemSQLite struct {
	db *sql.DB
}

func NewItemSQLite(db *sql.DB) *ItemSQLite { return &ItemSQLite{db: db} }

var _ ItemRepo = (*ItemSQLite)(nil)

const (
	itemColumns = `id, title, description, status, owner_email, image_filename, created_at`

	insertItemSQL = `INSERT INTO items (title, description, status, owner_email, image_filename, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	selectItemByIDSQL = `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	updateItemSQL     = `UPDATE items SET title = ?, description = ?, status = ?, image_filename = ? WHERE id = ?`
	deleteItemSQL     = `DELETE FROM items WHERE id = ?`
	countItemsSQL     = `SELECT COUNT(*) FROM items`

	listItemsSQL       = `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC, id DESC`
	listItemsStatusSQL = `SELECT ` + itemColumns + ` FROM items WHERE status = ? ORDER BY created_at DESC, id DESC`
	searchItemsSQL     = `SELECT ` + itemColumns + ` FROM items
		WHERE title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, id DESC`
)

// Create inserts a new item and returns its ID. A zero CreatedAt is set to now.
func (r *ItemSQLite) Create(ctx context.Context, it models.Item) (int, error) {
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, insertItemSQL,
		it.Title,
		it.Description,
		string(it.Status),
		it.OwnerEmail,
		nullString(it.ImageFilename),
		it.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert item %q: %w", it.Title, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for item %q: %w", it.Title, err)
	}
	return int(lastID), nil
}

// GetByID fetches an item. Returns (nil, nil) if not found.
func (r *ItemSQLite) GetByID(ctx context.Context, id int) (*models.Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, selectItemByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select item %d: %w", id, err)
	}
	return &it, nil
}

// Update overwrites the mutable fields of an item. It reports false when no row matched.
func (r *ItemSQLite) Update(ctx context.Context, it models.Item) (bool, error) {
	res, err := r.db.ExecContext(ctx, updateItemSQL,
		it.Title,
		it.Description,
		string(it.Status),
		nullString(it.ImageFilename),
		it.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update item %d: %w", it.ID, err)
	}
	return affected(res, "update item", it.ID)
}

// Delete removes an item. It reports false when no row matched.
func (r *ItemSQLite) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteItemSQL, id)
	if err != nil {
		return false, fmt.Errorf("delete item %d: %w", id, err)
	}
	return affected(res, "delete item", id)
}

// List returns items newest first. An empty status returns every item.
func (r *ItemSQLite) List(ctx context.Context, status models.Status) ([]models.Item, error) {
	if status == "" {
		return r.query(ctx, listItemsSQL)
	}
	return r.query(ctx, listItemsStatusSQL, string(status))
}

// Search returns items whose title or description contains query, ignoring case.
// LIKE wildcards in query are matched literally.
func (r *ItemSQLite) Search(ctx context.Context, query string) ([]models.Item, error) {
	pattern := "%" + escapeLike(query) + "%"
	return r.query(ctx, searchItemsSQL, pattern, pattern)
}

func (r *ItemSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countItemsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func (r *ItemSQLite) query(ctx context.Context, q string, args ...any) ([]models.Item, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	out := make([]models.Item, 0, 16)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(s rowScanner) (models.Item, error) {
	var (
		it     models.Item
		status string
		desc   sql.NullString
		image  sql.NullString
	)
	if err := s.Scan(&it.ID, &it.Title, &desc, &status, &it.OwnerEmail, &image, &it.CreatedAt); err != nil {
		return models.Item{}, err
	}
	it.Description = desc.String
	it.Status = models.Status(status)
	it.ImageFilename = image.String
	it.CreatedAt = it.CreatedAt.UTC()
	return it, nil
}

func affected(res sql.Result, op string, id int) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s %d rows affected: %w", op, id, err)
	}
	return n > 0, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
