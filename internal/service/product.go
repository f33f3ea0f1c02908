package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// ProductService handles catalog operations. Reads are public, writes are
// admin only.
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// CreateProductRequest contains the parameters for adding a product.
type CreateProductRequest struct {
	CategoryID  *int64
	Name        string
	Description string
	Price       decimal.Decimal
}

// CreateProduct adds a product to the catalog. Admin only.
func (s *ProductService) CreateProduct(ctx context.Context, caller domain.Principal, req CreateProductRequest) (*domain.Product, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price.IsNegative() {
		return nil, ErrInvalidProduct
	}

	product := &domain.Product{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price.Round(2),
	}
	if err := s.assignCategory(ctx, product, req.CategoryID); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCategory
		}
		return nil, err
	}
	return product, nil
}

// UpdateProductRequest carries a partial product update. Nil fields are left
// unchanged. A CategoryID pointing at zero clears the category.
type UpdateProductRequest struct {
	CategoryID  *int64
	Name        *string
	Description *string
	Price       *decimal.Decimal
}

// UpdateProduct applies a partial update. Orders already placed keep the
// price they captured. Admin only.
func (s *ProductService) UpdateProduct(ctx context.Context, caller domain.Principal, id int64, req UpdateProductRequest) (*domain.Product, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		product.Price = req.Price.Round(2)
	}
	if product.Name == "" || product.Price.IsNegative() {
		return nil, ErrInvalidProduct
	}
	if req.CategoryID != nil {
		if err := s.assignCategory(ctx, product, req.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product nobody has ordered. Admin only.
func (s *ProductService) DeleteProduct(ctx context.Context, caller domain.Principal, id int64) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}

	err := s.productRepo.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrProductNotFound
	case errors.Is(err, repository.ErrReferenced):
		return ErrProductInUse
	}
	return err
}

// GetProduct retrieves a product by ID.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListProducts returns the whole catalog.
func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.GetAll(ctx)
}

func (s *ProductService) assignCategory(ctx context.Context, product *domain.Product, categoryID *int64) error {
	if categoryID == nil || *categoryID == 0 {
		product.CategoryID = nil
		product.CategoryName = ""
		return nil
	}

	category, err := s.categoryRepo.GetByID(ctx, *categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCategory
		}
		return err
	}
	product.CategoryID = &category.ID
	product.CategoryName = category.Name
	return nil
}

// CategoryRequest contains the fields of a category.
type CategoryRequest struct {
	Name        string
	Description string
}

// CreateCategory adds a category. Admin only.
func (s *ProductService) CreateCategory(ctx context.Context, caller domain.Principal, req CategoryRequest) (*domain.Category, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	category := &domain.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if category.Name == "" {
		return nil, ErrInvalidCategory
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

// UpdateCategory replaces a category's name and description. Admin only.
func (s *ProductService) UpdateCategory(ctx context.Context, caller domain.Principal, id int64, req CategoryRequest) (*domain.Category, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Description = strings.TrimSpace(req.Description)
	if category.Name == "" {
		return nil, ErrInvalidCategory
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrCategoryNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Its products stay in the catalog
// without one. Admin only.
func (s *ProductService) DeleteCategory(ctx context.Context, caller domain.Principal, id int64) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *ProductService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// ListCategories returns every category ordered by name.
func (s *ProductService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}
