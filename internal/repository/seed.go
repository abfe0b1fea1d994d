package repository

import (
	"context"
	"fmt"

	"campus_lost_found/internal/models"
)

// Demo account created on first start so the board can be tried right away.
const (
	DemoEmail    = "demo@school.edu"
	DemoPassword = "password123"
)

var demoItems = []models.Item{
	{Title: "Black Umbrella", Description: "Left near library stairs", Status: models.StatusLost},
	{Title: "Set of Keys", Description: "Found in Canteen", Status: models.StatusFound},
}

// SeedDemo creates the demo account when it is missing and adds the demo items
// when the item table is empty. Running it again is a no-op.
func (r *Repository) SeedDemo(ctx context.Context, hashPassword func(string) (string, error)) error {
	u, err := r.Users.GetByEmail(ctx, DemoEmail)
	if err != nil {
		return fmt.Errorf("seed: lookup demo user: %w", err)
	}
	if u == nil {
		hash, err := hashPassword(DemoPassword)
		if err != nil {
			return fmt.Errorf("seed: hash demo password: %w", err)
		}
		if _, err := r.Users.Create(ctx, models.User{Email: DemoEmail, PasswordHash: hash}); err != nil {
			return fmt.Errorf("seed: create demo user: %w", err)
		}
	}

	n, err := r.Items.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, it := range demoItems {
		it.OwnerEmail = DemoEmail
		if _, err := r.Items.Create(ctx, it); err != nil {
			return fmt.Errorf("seed: create demo item %q: %w", it.Title, err)
		}
	}
	return nil
}
