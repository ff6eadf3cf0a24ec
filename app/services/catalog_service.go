package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/pkg/apperr"
	"github.com/shashiranjanraj/canteen/pkg/auth"
	"github.com/shashiranjanraj/canteen/pkg/authz"
	"github.com/shashiranjanraj/canteen/pkg/cache"
)

// ProductRepo is the slice of the product store the catalog needs.
type ProductRepo interface {
	ListAvailable(ctx context.Context) ([]models.Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

const (
	catalogCacheKey = "catalog:available"
	catalogCacheTTL = 30 * time.Second

	placeholderImage = "https://via.placeholder.com/150"
)

// ProductInput carries the client-supplied product fields.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"nullable,max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"imageUrl"`
	Available   *bool   `json:"available"`
}

// CatalogService implements product listing and seller-side catalog
// management.
type CatalogService struct {
	products ProductRepo
}

func NewCatalogService(products ProductRepo) *CatalogService {
	return &CatalogService{products: products}
}

// List returns the catalog visible to the caller. Anonymous callers and
// buyers see available products only; a seller sees their own complete
// catalog, unavailable items included.
func (s *CatalogService) List(ctx context.Context, claims *auth.Claims) ([]models.Product, error) {
	if claims != nil && claims.Role == authz.RoleSeller {
		return s.products.ListBySeller(ctx, claims.UserID)
	}

	var cached []models.Product
	if cache.Get(catalogCacheKey, &cached) {
		return cached, nil
	}

	products, err := s.products.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	_ = cache.Set(catalogCacheKey, products, catalogCacheTTL)
	return products, nil
}

// Create adds a product to the caller's catalog. Seller only.
func (s *CatalogService) Create(ctx context.Context, claims *auth.Claims, input ProductInput) (models.Product, error) {
	if !authz.Allow(claims, authz.Resource{Kind: authz.KindProduct}, authz.ActionCreate) {
		return models.Product{}, apperr.ErrForbidden
	}
	if err := validateProductInput(input); err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		SellerID:    claims.UserID,
		Available:   true,
		CreatedAt:   time.Now().UTC(),
	}
	if product.ImageURL == "" {
		product.ImageURL = placeholderImage
	}
	if input.Available != nil {
		product.Available = *input.Available
	}

	if err := s.products.Create(ctx, &product); err != nil {
		return models.Product{}, err
	}

	_ = cache.Forget(catalogCacheKey)
	return product, nil
}

// Update edits a product. Seller only; ownership enforced by the policy.
func (s *CatalogService) Update(ctx context.Context, claims *auth.Claims, id string, input ProductInput) (models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	res := authz.Resource{Kind: authz.KindProduct, OwnerID: product.SellerID}
	if !authz.Allow(claims, res, authz.ActionUpdate) {
		return models.Product{}, apperr.ErrForbidden
	}
	if err := validateProductInput(input); err != nil {
		return models.Product{}, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}
	if input.Available != nil {
		product.Available = *input.Available
	}

	if err := s.products.Update(ctx, &product); err != nil {
		return models.Product{}, err
	}

	_ = cache.Forget(catalogCacheKey)
	return product, nil
}

// Delete permanently removes a product. Seller only; ownership enforced.
func (s *CatalogService) Delete(ctx context.Context, claims *auth.Claims, id string) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	res := authz.Resource{Kind: authz.KindProduct, OwnerID: product.SellerID}
	if !authz.Allow(claims, res, authz.ActionDelete) {
		return apperr.ErrForbidden
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	_ = cache.Forget(catalogCacheKey)
	return nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: product name is required", apperr.ErrInvalidInput)
	}
	if input.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", apperr.ErrInvalidInput)
	}
	return nil
}
