package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bxiit/selmag/internal/domain"
	"github.com/bxiit/selmag/internal/i18n"
	"github.com/bxiit/selmag/internal/middleware"
	"github.com/bxiit/selmag/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BasePath is the mount point of the catalogue API
const BasePath = "/catalogue-api"

// NewProductPayload represents the product creation request payload
type NewProductPayload struct {
	Title   *string `json:"title" validate:"required,trimmedmin=3,trimmedmax=50"`
	Details *string `json:"details" validate:"omitempty,max=1000"`
}

// UpdateProductPayload represents the product update request payload
type UpdateProductPayload struct {
	Title   *string `json:"title" validate:"required,trimmedmin=3,trimmedmax=50"`
	Details *string `json:"details" validate:"omitempty,max=1000"`
}

var productMessageKeys = middleware.MessageKeys{
	"title.required":   i18n.TitleIsNull,
	"title.trimmedmin": i18n.TitleSizeIsInvalid,
	"title.trimmedmax": i18n.TitleSizeIsInvalid,
	"details.max":      i18n.DetailsSizeIsInvalid,
}

// ProductHandler handles HTTP requests for catalogue products
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes. Scope checks run before any
// handler reads the request body. writeMiddleware applies to mutating routes only.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler, writeMiddleware ...func(http.Handler) http.Handler) {
	r.Route(BasePath+"/products", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireScope(domain.ScopeViewCatalogue, h.logger))
			r.Get("/", h.FindProducts)
			r.Get("/{productId}", h.FindProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireScope(domain.ScopeEditCatalogue, h.logger))
			r.Use(writeMiddleware...)
			r.Post("/", h.CreateProduct)
			r.Patch("/{productId}", h.UpdateProduct)
			r.Delete("/{productId}", h.DeleteProduct)
		})
	})
}

// FindProducts handles listing products, optionally filtered by title substring
func (h *ProductHandler) FindProducts(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")

	products, err := h.productService.FindProducts(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to find products", zap.String("filter", filter), zap.Error(err))
		middleware.RespondWithError(w, r, http.StatusInternalServerError, i18n.InternalError)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// CreateProduct handles product creation
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload NewProductPayload
	if !h.decode(w, r, &payload) {
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), *payload.Title, payload.Details)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", productLocation(r, product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// FindProduct handles fetching a single product
func (h *ProductHandler) FindProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.FindProduct(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// UpdateProduct handles replacing title and details of a product
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var payload UpdateProductPayload
	if !h.decode(w, r, &payload) {
		return
	}

	if err := h.productService.UpdateProduct(r.Context(), id, *payload.Title, payload.Details); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct handles product removal
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decode reads and validates the body, writing a 400 problem on failure
func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	err := middleware.DecodeAndValidate(r, payload)
	if err == nil {
		return true
	}

	h.logger.Debug("Product payload rejected", zap.Error(err))

	if errors.Is(err, middleware.ErrMalformedBody) {
		middleware.RespondWithError(w, r, http.StatusBadRequest, i18n.MalformedBody)
		return false
	}

	messages := middleware.FormatValidationErrors(err, i18n.FromRequest(r), productMessageKeys)
	middleware.RespondWithValidationErrors(w, r, messages)
	return false
}

// productID parses the path id. Ids beyond the int4 key range cannot exist,
// so they are answered as absent: 204 for DELETE, 404 otherwise.
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 32)
	switch {
	case errors.Is(err, strconv.ErrRange):
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
		} else {
			middleware.RespondWithError(w, r, http.StatusNotFound, i18n.ProductNotFound)
		}
		return 0, false
	case err != nil:
		middleware.RespondWithError(w, r, http.StatusBadRequest, i18n.ProductIDInvalid)
		return 0, false
	}
	return int(id), true
}

func (h *ProductHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		middleware.RespondWithError(w, r, http.StatusNotFound, i18n.ProductNotFound)
	case errors.Is(err, service.ErrInvalidProduct):
		h.logger.Debug("Product rejected by store", zap.Error(err))
		middleware.RespondWithError(w, r, http.StatusBadRequest, i18n.ValidationFailed)
	default:
		h.logger.Error("Product operation failed", zap.String("path", r.URL.Path), zap.Error(err))
		middleware.RespondWithError(w, r, http.StatusInternalServerError, i18n.InternalError)
	}
}

// productLocation builds the absolute URL of a product from the request's scheme and host
func productLocation(r *http.Request, id int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return fmt.Sprintf("%s://%s%s/products/%d", scheme, r.Host, BasePath, id)
}
