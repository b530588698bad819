package transport

import (
	"errors"
	"net/http"

	"scent-store/internal/domain"
	"scent-store/internal/middleware"
	"scent-store/internal/repository"
	"scent-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductRequest represents the admin product payload
type ProductRequest struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name" validate:"required"`
	Price          float64                `json:"price" validate:"gte=0"`
	Stock          int                    `json:"stock" validate:"gte=0"`
	Description    string                 `json:"description"`
	Category       string                 `json:"category" validate:"omitempty,oneof=Bold Fresh Warm Woody Floral"`
	ImageURL       string                 `json:"imageUrl"`
	Badge          domain.Badge           `json:"badge" validate:"omitempty,oneof=Offer Bestseller 'Limited Edition' 'New Arrival' 'Low Stock' None"`
	Specifications *domain.Specifications `json:"specifications"`
}

func (req ProductRequest) toProduct() *domain.Product {
	return &domain.Product{
		ID:             req.ID,
		Name:           req.Name,
		Price:          req.Price,
		Stock:          req.Stock,
		Description:    req.Description,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		Badge:          req.Badge,
		Specifications: req.Specifications,
	}
}

// CatalogHandler handles HTTP requests for the catalog
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers the storefront and back-office catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/{id}", h.GetProduct)
	r.Get("/api/categories", h.ListCategories)
	r.Get("/api/specs", h.ListSpecifications)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/api/admin/products", h.CreateProduct)
		r.Put("/api/admin/products/{id}", h.UpdateProduct)
		r.Delete("/api/admin/products/{id}", h.DeleteProduct)
		r.Put("/api/admin/products/{id}/specifications", h.UpdateSpecifications)
	})
}

// ListProducts returns the catalog, optionally filtered by ?category=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.ListProductsByCategory(r.Context(), r.URL.Query().Get("category"))
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns one product
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListCategories returns the storefront categories, "All" first
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := append([]string{domain.CategoryAll}, h.catalog.Categories()...)
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ListSpecifications returns the products that carry a scent profile
func (h *CatalogHandler) ListSpecifications(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.ProductsWithSpecifications(r.Context()))
}

// CreateProduct creates or overwrites a product
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), req.toProduct())
	if err != nil {
		h.respondWriteError(w, err, "failed to save product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct merges the payload into an existing product
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	product := req.toProduct()
	product.ID = chi.URLParam(r, "id")

	if err := h.catalog.UpdateProduct(r.Context(), product); err != nil {
		h.respondWriteError(w, err, "failed to update product")
		return
	}

	updated, err := h.catalog.GetProduct(r.Context(), product.ID)
	if err != nil {
		middleware.RespondWithJSON(w, http.StatusOK, product)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteProduct removes a product
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondWriteError(w, err, "failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSpecifications replaces a product's scent profile
func (h *CatalogHandler) UpdateSpecifications(w http.ResponseWriter, r *http.Request) {
	var specs domain.Specifications
	if !decodeRequest(w, r, &specs, h.logger) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.catalog.UpdateSpecifications(r.Context(), id, specs); err != nil {
		h.respondWriteError(w, err, "failed to update specifications")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) respondWriteError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrInvalidSpecifications), errors.Is(err, service.ErrInvalidProduct):
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(message, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, message)
	}
}
