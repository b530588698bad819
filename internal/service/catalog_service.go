package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scent-store/internal/domain"
	"scent-store/internal/repository"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrInvalidProduct        = errors.New("invalid product")
	ErrInvalidSpecifications = errors.New("invalid specifications")
)

var validate = validator.New()

// CatalogService defines the interface for catalog business logic. Reads
// never fail: a gateway error is logged and reads as an empty result.
type CatalogService interface {
	ListProducts(ctx context.Context) []*domain.Product
	ListProductsByCategory(ctx context.Context, category string) []*domain.Product
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	AddProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Categories() []string
	ProductsWithSpecifications(ctx context.Context) []*domain.Product
	UpdateSpecifications(ctx context.Context, id string, specs domain.Specifications) error
	SeedIfEmpty(ctx context.Context) error
}

type catalogService struct {
	products repository.ProductRepository
	recorder Recorder
	logger   *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(products repository.ProductRepository, recorder Recorder, logger *zap.Logger) CatalogService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &catalogService{
		products: products,
		recorder: recorder,
		logger:   logger,
	}
}

// ListProducts returns the whole catalog
func (s *catalogService) ListProducts(ctx context.Context) []*domain.Product {
	products, err := s.products.List(ctx)
	if err != nil {
		s.readFailed("list_products", err)
		return []*domain.Product{}
	}
	return products
}

// ListProductsByCategory filters the catalog; "All" and "" match everything
func (s *catalogService) ListProductsByCategory(ctx context.Context, category string) []*domain.Product {
	products := s.ListProducts(ctx)
	if category == "" || category == domain.CategoryAll {
		return products
	}

	filtered := make([]*domain.Product, 0, len(products))
	for _, product := range products {
		if strings.EqualFold(product.Category, category) {
			filtered = append(filtered, product)
		}
	}
	return filtered
}

// GetProduct returns one product; any failure reads as ErrProductNotFound
func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrProductNotFound) {
			s.readFailed("get_product", err, zap.String("product_id", id))
		}
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

// AddProduct creates or overwrites a product. Products without an id get the
// slug of their name.
func (s *catalogService) AddProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.ID == "" {
		product.ID = domain.NewProductID(product.Name)
	}
	if product.ID == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if product.Specifications != nil {
		if err := validateSpecifications(*product.Specifications); err != nil {
			return nil, err
		}
	}

	if err := s.products.Upsert(ctx, product); err != nil {
		s.recorder.GatewayError("add_product")
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	s.logger.Info("Product saved", zap.String("product_id", product.ID))
	return product, nil
}

// UpdateProduct merges the product's fields into the stored document. An
// empty image or badge clears the stored one; nil specifications keep the
// stored profile, which has its own update.
func (s *catalogService) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if product.Specifications != nil {
		if err := validateSpecifications(*product.Specifications); err != nil {
			return err
		}
	}

	doc, err := repository.ProductDocument(product)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	doc["imageUrl"] = product.ImageURL
	doc["badge"] = string(product.Badge)

	if err := s.products.Patch(ctx, product.ID, doc); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		s.recorder.GatewayError("update_product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// DeleteProduct removes a product permanently
func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		s.recorder.GatewayError("delete_product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// Categories returns the storefront categories in display order
func (s *catalogService) Categories() []string {
	return append([]string(nil), domain.Categories...)
}

// ProductsWithSpecifications returns the products that carry a scent profile
func (s *catalogService) ProductsWithSpecifications(ctx context.Context) []*domain.Product {
	products := s.ListProducts(ctx)
	withSpecs := make([]*domain.Product, 0, len(products))
	for _, product := range products {
		if product.Specifications != nil {
			withSpecs = append(withSpecs, product)
		}
	}
	return withSpecs
}

// UpdateSpecifications replaces only the specifications of a product
func (s *catalogService) UpdateSpecifications(ctx context.Context, id string, specs domain.Specifications) error {
	if err := validateSpecifications(specs); err != nil {
		return err
	}

	if err := s.products.Patch(ctx, id, map[string]any{"specifications": specs}); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		s.recorder.GatewayError("update_specifications")
		return fmt.Errorf("failed to update specifications: %w", err)
	}

	return nil
}

// SeedIfEmpty writes the starter catalog when there are no products yet
func (s *catalogService) SeedIfEmpty(ctx context.Context) error {
	count, err := s.products.Count(ctx)
	if err != nil {
		s.recorder.GatewayError("seed")
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		s.logger.Debug("Catalog already populated, skipping seed", zap.Int("products", count))
		return nil
	}

	starter := StarterCatalog()
	if err := s.products.UpsertBatch(ctx, starter); err != nil {
		s.recorder.GatewayError("seed")
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	s.logger.Info("Seeded starter catalog", zap.Int("products", len(starter)))
	return nil
}

func (s *catalogService) readFailed(op string, err error, fields ...zap.Field) {
	s.recorder.GatewayError(op)
	s.logger.Error("Catalog read failed",
		append(fields, zap.String("op", op), zap.Error(err))...,
	)
}

func validateSpecifications(specs domain.Specifications) error {
	if err := validate.Struct(specs); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpecifications, err)
	}
	return nil
}
