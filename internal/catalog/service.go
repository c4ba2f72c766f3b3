package catalog

import (
	"context"
	"strings"

	"github.com/craftline/storefront-backend/pkg/db/models"
	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
	"github.com/craftline/storefront-backend/pkg/pagination"
)

// Service exposes the catalog reads the storefront needs.
type Service struct {
	repo Repository
}

// NewService wires the catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns published products, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	page := pagination.Params{Limit: limit, Offset: offset}.Normalize()
	return s.repo.ListPublished(ctx, page.Limit, page.Offset)
}

// GetBySlug returns one published product.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}
	return s.repo.FindBySlug(ctx, slug)
}

// GetByID returns one published product by its numeric id.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	return s.repo.FindByID(ctx, id)
}
