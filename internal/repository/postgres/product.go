package postgres

import (
	"context"
	"database/sql"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `
	p.id, p.category_id, COALESCE(c.name, ''), p.name, p.description, p.price, p.created_at, p.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
`

// Create adds a new product.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (category_id, name, description, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		nullInt64(product.CategoryID),
		product.Name,
		product.Description,
		product.Price,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if isForeignKeyViolation(err) {
		return repository.ErrNotFound
	}
	return err
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` WHERE p.id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return p, err
}

// GetAll retrieves all products ordered by name.
func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` ORDER BY p.name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Update writes the editable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, price = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		nullInt64(product.CategoryID),
		product.Name,
		product.Description,
		product.Price,
		product.ID,
	).Scan(&product.UpdatedAt)
	switch {
	case err == sql.ErrNoRows, isForeignKeyViolation(err):
		return repository.ErrNotFound
	}
	return err
}

// Delete removes a product that no order refers to.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrReferenced
		}
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanProduct(s scanner) (*domain.Product, error) {
	var (
		p          domain.Product
		categoryID sql.NullInt64
	)
	err := s.Scan(&p.ID, &categoryID, &p.CategoryName, &p.Name, &p.Description, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CategoryID = int64Ptr(categoryID)
	return &p, nil
}

// Ensure ProductRepository implements repository.ProductRepository.
var _ repository.ProductRepository = (*ProductRepository)(nil)
