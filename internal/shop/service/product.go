package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/internal/shop/store"
	"github.com/ledgerlane/storefront/pkg/idx"
)

var ErrInvalidProduct = errors.New("product needs a name and a non-negative price")

// ProductService is the catalog surface the order flow needs. Writes are
// administrator-only, enforced at the router.
type ProductService struct {
	Store store.Store
}

func validateProduct(name string, price int64) error {
	if strings.TrimSpace(name) == "" || price < 0 {
		return ErrInvalidProduct
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, name, description string, price int64, listed bool) (domain.Product, error) {
	if err := validateProduct(name, price); err != nil {
		return domain.Product{}, err
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:          idx.New().String(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Listed:      listed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Products().Create(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.Store.Products().GetByID(ctx, id)
}

// List returns listed products for customers; admins pass listedOnly=false
// to see the whole catalog.
func (s *ProductService) List(ctx context.Context, listedOnly bool) ([]domain.Product, error) {
	return s.Store.Products().List(ctx, listedOnly)
}

func (s *ProductService) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := validateProduct(product.Name, product.Price); err != nil {
		return domain.Product{}, err
	}
	product.Name = strings.TrimSpace(product.Name)
	product.UpdatedAt = time.Now().UTC()

	if err := s.Store.Products().Update(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.Store.Products().Delete(ctx, id)
}
