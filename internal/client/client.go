// Package client is the manager app's typed HTTP client for the catalogue API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bxiit/selmag/internal/domain"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const productsPath = "/catalogue-api/products"

// CatalogueClient calls the catalogue REST API on behalf of the manager UI
type CatalogueClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

type productPayload struct {
	Title   string  `json:"title"`
	Details *string `json:"details"`
}

type problemDetail struct {
	Detail string   `json:"detail"`
	Errors []string `json:"errors"`
}

// NewCatalogueClient creates a client for the catalogue API at baseURL. Each
// call is bounded by timeout and is never retried.
func NewCatalogueClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *CatalogueClient {
	return &CatalogueClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens: tokens,
		logger: logger,
	}
}

// FindProducts lists products whose title contains filter
func (c *CatalogueClient) FindProducts(ctx context.Context, filter string) ([]domain.Product, error) {
	path := productsPath
	if filter != "" {
		path += "?" + url.Values{"filter": {filter}}.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	products := []domain.Product{}
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// CreateProduct creates a product. A rejected payload yields *BadRequestError.
func (c *CatalogueClient) CreateProduct(ctx context.Context, title string, details *string) (*domain.Product, error) {
	resp, err := c.do(ctx, http.MethodPost, productsPath, productPayload{Title: title, Details: details})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, c.statusError(resp)
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &product, nil
}

// FindProduct fetches a single product
func (c *CatalogueClient) FindProduct(ctx context.Context, id int) (*domain.Product, error) {
	resp, err := c.do(ctx, http.MethodGet, productPath(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &product, nil
}

// UpdateProduct replaces the title and details of a product
func (c *CatalogueClient) UpdateProduct(ctx context.Context, id int, title string, details *string) error {
	resp, err := c.do(ctx, http.MethodPatch, productPath(id), productPayload{Title: title, Details: details})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.statusError(resp)
	}
	return nil
}

// DeleteProduct removes a product
func (c *CatalogueClient) DeleteProduct(ctx context.Context, id int) error {
	resp, err := c.do(ctx, http.MethodDelete, productPath(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.statusError(resp)
	}
	return nil
}

func (c *CatalogueClient) do(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if lang := AcceptLanguage(ctx); lang != "" {
		req.Header.Set("Accept-Language", lang)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Catalogue request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	return resp, nil
}

// statusError maps a non-success response to the client's error values
func (c *CatalogueClient) statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusBadRequest:
		var problem problemDetail
		if err := json.NewDecoder(resp.Body).Decode(&problem); err != nil {
			return fmt.Errorf("failed to decode bad request problem: %w", err)
		}
		return &BadRequestError{Detail: problem.Detail, Errors: problem.Errors}
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrAccessDenied
	case http.StatusNotFound:
		return ErrProductNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrServiceUnavailable
	default:
		c.logger.Error("Unexpected catalogue response",
			zap.String("method", resp.Request.Method),
			zap.String("url", resp.Request.URL.String()),
			zap.Int("status", resp.StatusCode),
		)
		return &UnexpectedStatusError{StatusCode: resp.StatusCode}
	}
}

func productPath(id int) string {
	return productsPath + "/" + strconv.Itoa(id)
}
