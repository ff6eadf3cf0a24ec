package seeders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/internal/store"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/auth"
	"github.com/shashiranjanraj/canteen/pkg/authz"
)

func init() {
	Register("users", SeedUsers)
	Register("products", SeedProducts)
}

// SeedUsers creates one demo buyer and one demo seller. Idempotent:
// existing usernames are left untouched.
func SeedUsers(ctx context.Context, s *store.Store) error {
	users := repositories.NewUserRepository(s)

	demo := []struct {
		username string
		password string
		role     string
	}{
		{"customer1", "customer123", authz.RoleBuyer},
		{"owner1", "owner123", authz.RoleSeller},
	}

	for _, d := range demo {
		if _, err := users.FindByUsername(ctx, d.username); err == nil {
			continue
		} else if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		hash, err := auth.HashPassword(d.password)
		if err != nil {
			return fmt.Errorf("hash %s: %w", d.username, err)
		}

		user := models.User{
			Username:  d.username,
			Password:  hash,
			Role:      d.role,
			CreatedAt: time.Now().UTC(),
		}
		if err := users.Create(ctx, &user); err != nil {
			return err
		}
	}
	return nil
}

// SeedProducts stocks the demo seller's catalog. Skips entirely when the
// catalog already has products.
func SeedProducts(ctx context.Context, s *store.Store) error {
	users := repositories.NewUserRepository(s)
	products := repositories.NewProductRepository(s)

	seller, err := users.FindByUsername(ctx, "owner1")
	if err != nil {
		return fmt.Errorf("demo seller missing (run users seeder first): %w", err)
	}

	existing, err := products.ListBySeller(ctx, seller.ID.Hex())
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	demo := []models.Product{
		{Name: "Tea", Price: 1.50},
		{Name: "Coffee", Price: 2.00},
		{Name: "Veg Sandwich", Price: 3.50},
		{Name: "Samosa", Price: 1.00},
		{Name: "Fruit Bowl", Price: 2.75},
	}

	for _, p := range demo {
		p.SellerID = seller.ID.Hex()
		p.Available = true
		p.ImageURL = "https://via.placeholder.com/150"
		p.CreatedAt = time.Now().UTC()
		if err := products.Create(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}
