package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/bxiit/selmag/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrConstraintViolation = errors.New("product violates table constraints")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	FindAllByTitleContainingIgnoreCase(ctx context.Context, filter string) ([]*domain.Product, error)
	Insert(ctx context.Context, title string, details *string) (*domain.Product, error)
	Update(ctx context.Context, id int, title string, details *string) error
	DeleteByID(ctx context.Context, id int) error
}

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	if !storableID(id) {
		return nil, ErrProductNotFound
	}

	query := `
		SELECT id, c_title, c_details
		FROM catalogue.t_product
		WHERE id = $1
	`

	product := &domain.Product{}
	var details sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&product.ID, &product.Title, &details)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	product.Details = nullableString(details)

	return product, nil
}

// FindAllByTitleContainingIgnoreCase returns products whose title contains
// filter, ignoring case, in insertion order. The filter is matched literally:
// LIKE wildcards inside it are escaped.
func (r *productRepository) FindAllByTitleContainingIgnoreCase(ctx context.Context, filter string) ([]*domain.Product, error) {
	// text columns cannot hold NUL, so no title contains it
	if strings.ContainsRune(filter, 0) {
		return []*domain.Product{}, nil
	}

	query := `
		SELECT id, c_title, c_details
		FROM catalogue.t_product
		WHERE c_title ILIKE $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, containsPattern(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		var details sql.NullString
		if err := rows.Scan(&product.ID, &product.Title, &details); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		product.Details = nullableString(details)
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Insert stores a new product; the id is generated by the database
func (r *productRepository) Insert(ctx context.Context, title string, details *string) (*domain.Product, error) {
	query := `
		INSERT INTO catalogue.t_product (c_title, c_details)
		VALUES ($1, $2)
		RETURNING id
	`

	product := &domain.Product{Title: title, Details: details}
	if err := r.db.QueryRowContext(ctx, query, title, details).Scan(&product.ID); err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update replaces title and details of an existing product
func (r *productRepository) Update(ctx context.Context, id int, title string, details *string) error {
	if !storableID(id) {
		return ErrProductNotFound
	}

	query := `
		UPDATE catalogue.t_product
		SET c_title = $2, c_details = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, title, details)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// DeleteByID removes a product. Deleting a missing product is not an error.
func (r *productRepository) DeleteByID(ctx context.Context, id int) error {
	if !storableID(id) {
		return nil
	}

	query := `DELETE FROM catalogue.t_product WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a literal substring into an ILIKE pattern.
// Backslash is the default LIKE escape character in Postgres.
func containsPattern(filter string) string {
	return "%" + likeEscaper.Replace(filter) + "%"
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// storableID reports whether id fits the int4 primary key. Ids outside that
// range can never exist.
func storableID(id int) bool {
	return id >= math.MinInt32 && id <= math.MaxInt32
}

// isConstraintViolation reports integrity constraint (class 23),
// string-too-long (22001) and invalid byte sequence (22021) errors.
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch {
	case strings.HasPrefix(pgErr.Code, "23"):
		return true
	case pgErr.Code == "22001", pgErr.Code == "22021":
		return true
	default:
		return false
	}
}
