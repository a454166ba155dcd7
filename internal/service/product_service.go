package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bxiit/selmag/internal/domain"
	"github.com/bxiit/selmag/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("product violates catalogue constraints")
)

// ProductService defines the catalogue operations exposed by the API
type ProductService interface {
	FindProducts(ctx context.Context, filter string) ([]*domain.Product, error)
	FindProduct(ctx context.Context, id int) (*domain.Product, error)
	CreateProduct(ctx context.Context, title string, details *string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int, title string, details *string) error
	DeleteProduct(ctx context.Context, id int) error
}

type productService struct {
	productRepo repository.ProductRepository
	changes     metric.Int64Counter
	logger      *zap.Logger
}

// NewProductService creates a new instance of ProductService. Product
// changes are counted on meter as catalogue.products.changes.
func NewProductService(productRepo repository.ProductRepository, meter metric.Meter, logger *zap.Logger) (ProductService, error) {
	changes, err := meter.Int64Counter(
		"catalogue.products.changes",
		metric.WithDescription("Number of created, updated and deleted products"),
		metric.WithUnit("{product}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product changes counter: %w", err)
	}

	return &productService{
		productRepo: productRepo,
		changes:     changes,
		logger:      logger,
	}, nil
}

// FindProducts returns products whose title contains filter, ignoring case
func (s *productService) FindProducts(ctx context.Context, filter string) ([]*domain.Product, error) {
	products, err := s.productRepo.FindAllByTitleContainingIgnoreCase(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// FindProduct retrieves a product by ID
func (s *productService) FindProduct(ctx context.Context, id int) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return product, nil
}

// CreateProduct stores a new product with its title trimmed
func (s *productService) CreateProduct(ctx context.Context, title string, details *string) (*domain.Product, error) {
	product, err := s.productRepo.Insert(ctx, strings.TrimSpace(title), details)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.record(ctx, "create")
	s.logger.Info("Product created", zap.Int("product_id", product.ID))

	return product, nil
}

// UpdateProduct replaces title and details of an existing product
func (s *productService) UpdateProduct(ctx context.Context, id int, title string, details *string) error {
	if err := s.productRepo.Update(ctx, id, strings.TrimSpace(title), details); err != nil {
		return mapStoreError(err)
	}

	s.record(ctx, "update")
	s.logger.Info("Product updated", zap.Int("product_id", id))

	return nil
}

// DeleteProduct removes a product. Deleting a missing product succeeds.
func (s *productService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.productRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.record(ctx, "delete")
	s.logger.Info("Product deleted", zap.Int("product_id", id))

	return nil
}

func (s *productService) record(ctx context.Context, operation string) {
	s.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return ErrProductNotFound
	case errors.Is(err, repository.ErrConstraintViolation):
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	default:
		return fmt.Errorf("product store failure: %w", err)
	}
}
