// Package web serves the manager UI: server-rendered catalogue pages backed
// by the catalogue API client.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bxiit/selmag/internal/client"
	"github.com/bxiit/selmag/internal/domain"
	"github.com/bxiit/selmag/internal/i18n"
	"github.com/bxiit/selmag/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogueAPI is the subset of the catalogue client used by the UI
type CatalogueAPI interface {
	FindProducts(ctx context.Context, filter string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, title string, details *string) (*domain.Product, error)
	FindProduct(ctx context.Context, id int) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int, title string, details *string) error
	DeleteProduct(ctx context.Context, id int) error
}

// productForm holds submitted form values for re-rendering
type productForm struct {
	Title   string
	Details string
}

type pageData struct {
	Lang     string
	Username string

	Filter   string
	Products []domain.Product
	Product  *domain.Product

	Action  string
	Payload productForm
	Errors  []string

	Status     int
	StatusText string
	Message    string
}

// ProductsController handles the manager UI catalogue pages
type ProductsController struct {
	catalogue CatalogueAPI
	logger    *zap.Logger
}

// NewProductsController creates a new ProductsController
func NewProductsController(catalogue CatalogueAPI, logger *zap.Logger) *ProductsController {
	return &ProductsController{
		catalogue: catalogue,
		logger:    logger,
	}
}

// RegisterRoutes registers the UI routes
func (c *ProductsController) RegisterRoutes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/catalogue/products/list", http.StatusFound)
	})

	r.Route("/catalogue/products", func(r chi.Router) {
		r.Get("/list", c.ListProducts)
		r.Get("/create", c.NewProductPage)
		r.Post("/create", c.CreateProduct)

		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", c.ProductPage)
			r.Get("/edit", c.EditProductPage)
			r.Post("/edit", c.UpdateProduct)
			r.Post("/delete", c.DeleteProduct)
		})
	})
}

// ListProducts renders the product list, filtered by the optional filter parameter
func (c *ProductsController) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")

	products, err := c.catalogue.FindProducts(apiContext(r), filter)
	if err != nil {
		c.renderError(w, r, err)
		return
	}

	data := c.page(r)
	data.Filter = filter
	data.Products = products
	c.render(w, r, http.StatusOK, pageList, data)
}

// NewProductPage renders an empty creation form
func (c *ProductsController) NewProductPage(w http.ResponseWriter, r *http.Request) {
	data := c.page(r)
	data.Action = "/catalogue/products/create"
	c.render(w, r, http.StatusOK, pageForm, data)
}

// CreateProduct submits the creation form to the catalogue API. Validation is
// left to the API; its messages are shown as returned.
func (c *ProductsController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(r)
	if err != nil {
		c.renderError(w, r, err)
		return
	}

	product, err := c.catalogue.CreateProduct(apiContext(r), form.Title, optional(form.Details))
	if err != nil {
		var badRequest *client.BadRequestError
		if errors.As(err, &badRequest) {
			data := c.page(r)
			data.Action = "/catalogue/products/create"
			data.Payload = form
			data.Errors = badRequest.Errors
			c.render(w, r, http.StatusBadRequest, pageForm, data)
			return
		}
		c.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/catalogue/products/%d", product.ID), http.StatusSeeOther)
}

// ProductPage renders a single product
func (c *ProductsController) ProductPage(w http.ResponseWriter, r *http.Request) {
	product, ok := c.loadProduct(w, r)
	if !ok {
		return
	}

	data := c.page(r)
	data.Product = product
	c.render(w, r, http.StatusOK, pageProduct, data)
}

// EditProductPage renders the edit form pre-filled with the current values
func (c *ProductsController) EditProductPage(w http.ResponseWriter, r *http.Request) {
	product, ok := c.loadProduct(w, r)
	if !ok {
		return
	}

	data := c.page(r)
	data.Product = product
	data.Action = fmt.Sprintf("/catalogue/products/%d/edit", product.ID)
	data.Payload = productForm{Title: product.Title, Details: product.DetailsOrEmpty()}
	c.render(w, r, http.StatusOK, pageForm, data)
}

// UpdateProduct submits the edit form to the catalogue API
func (c *ProductsController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := c.loadProduct(w, r)
	if !ok {
		return
	}

	form, err := readForm(r)
	if err != nil {
		c.renderError(w, r, err)
		return
	}

	if err := c.catalogue.UpdateProduct(apiContext(r), product.ID, form.Title, optional(form.Details)); err != nil {
		var badRequest *client.BadRequestError
		if errors.As(err, &badRequest) {
			data := c.page(r)
			data.Product = product
			data.Action = fmt.Sprintf("/catalogue/products/%d/edit", product.ID)
			data.Payload = form
			data.Errors = badRequest.Errors
			c.render(w, r, http.StatusBadRequest, pageForm, data)
			return
		}
		c.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/catalogue/products/%d", product.ID), http.StatusSeeOther)
}

// DeleteProduct removes the product and returns to the list
func (c *ProductsController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if errors.Is(err, strconv.ErrRange) {
		http.Redirect(w, r, "/catalogue/products/list", http.StatusSeeOther)
		return
	}
	if err != nil {
		c.renderError(w, r, client.ErrProductNotFound)
		return
	}

	if err := c.catalogue.DeleteProduct(apiContext(r), id); err != nil {
		c.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/catalogue/products/list", http.StatusSeeOther)
}

func (c *ProductsController) loadProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	id, err := parseProductID(r)
	if err != nil {
		c.renderError(w, r, client.ErrProductNotFound)
		return nil, false
	}

	product, err := c.catalogue.FindProduct(apiContext(r), id)
	if err != nil {
		c.renderError(w, r, err)
		return nil, false
	}
	return product, true
}

// parseProductID reads the path id; anything outside int4 cannot name a product
func parseProductID(r *http.Request) (int, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 32)
	return int(id), err
}

// renderError maps catalogue failures to error pages
func (c *ProductsController) renderError(w http.ResponseWriter, r *http.Request, err error) {
	localizer := i18n.FromRequest(r)

	status := http.StatusInternalServerError
	message := localizer.Message(i18n.InternalError)

	switch {
	case errors.Is(err, client.ErrAccessDenied):
		status = http.StatusForbidden
		message = localizer.Message(i18n.Forbidden)
	case errors.Is(err, client.ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
		message = localizer.Message(i18n.CatalogueUnavailable)
	case errors.Is(err, client.ErrProductNotFound):
		status = http.StatusNotFound
		message = localizer.Message(i18n.ProductNotFound)
	}

	if status == http.StatusInternalServerError {
		c.logger.Error("Catalogue page failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		c.logger.Debug("Catalogue page rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}

	data := c.page(r)
	data.Status = status
	data.StatusText = http.StatusText(status)
	data.Message = message
	c.render(w, r, status, pageError, data)
}

func (c *ProductsController) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	if err := render(w, status, page, data); err != nil {
		c.logger.Error("Failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (c *ProductsController) page(r *http.Request) pageData {
	username, _ := middleware.GetManagerUsername(r.Context())
	return pageData{
		Lang:     i18n.FromRequest(r).Tag().String(),
		Username: username,
	}
}

// apiContext carries the manager's language preference to the catalogue API
func apiContext(r *http.Request) context.Context {
	return client.WithAcceptLanguage(r.Context(), r.Header.Get("Accept-Language"))
}

func readForm(r *http.Request) (productForm, error) {
	if err := r.ParseForm(); err != nil {
		return productForm{}, fmt.Errorf("failed to parse form: %w", err)
	}
	return productForm{
		Title:   r.PostFormValue("title"),
		Details: r.PostFormValue("details"),
	}, nil
}

// optional treats an empty details field as absent
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
