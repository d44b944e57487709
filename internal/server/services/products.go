package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/delcom/marketplace/internal/common"
	"github.com/delcom/marketplace/internal/dbx"
	"github.com/delcom/marketplace/internal/server/models"
	"github.com/delcom/marketplace/internal/server/repositories/repomanager"
)

// ProductService implements the marketplace listing operations. Mutations
// enforce ownership: only the creator may update or delete a product.
type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewProductService constructs a ProductService.
func NewProductService(db *sql.DB, m repomanager.RepositoryManager) *ProductService {
	return &ProductService{db: db, repomanager: m}
}

// Create stores a new product owned by userID.
func (s *ProductService) Create(ctx context.Context, userID string, product *models.Product) (*models.Product, error) {
	product.UserID = userID
	p, err := s.repomanager.Products(s.db).Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("error creating product: %v", err)
	}
	return p, nil
}

// Get returns a product by id, common.ErrorNotFound when absent.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.repomanager.Products(s.db).GetByID(ctx, id)
}

// List returns all products, newest first.
func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).List(ctx)
}

// ListByUser returns the products owned by userID, newest first.
func (s *ProductService) ListByUser(ctx context.Context, userID string) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).ListByUserID(ctx, userID)
}

// Update replaces the mutable fields of the product. The read and write run
// in one transaction so the ownership check and the update see the same row.
// A caller that does not own the product gets common.ErrNotOwner.
func (s *ProductService) Update(ctx context.Context, userID string, product *models.Product) (*models.Product, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)

		current, err := repo.GetByID(ctx, product.ID)
		if err != nil {
			return err
		}
		if current.UserID != userID {
			return common.ErrNotOwner
		}

		if product.ImageURL == "" {
			product.ImageURL = current.ImageURL
		}
		return repo.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	product.UserID = userID
	return product, nil
}

// Delete removes the product and returns its image URL so the caller can
// drop the stored file. Ownership is checked in the same transaction.
func (s *ProductService) Delete(ctx context.Context, userID string, id string) (string, error) {
	var imageURL string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.UserID != userID {
			return common.ErrNotOwner
		}

		imageURL = current.ImageURL
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return "", err
	}
	return imageURL, nil
}

// CountByCategory returns chart data: products per category.
func (s *ProductService) CountByCategory(ctx context.Context) ([]*models.CategoryCount, error) {
	return s.repomanager.Products(s.db).CountByCategory(ctx)
}

// CountByCondition returns chart data: products per condition.
func (s *ProductService) CountByCondition(ctx context.Context) ([]*models.ConditionCount, error) {
	return s.repomanager.Products(s.db).CountByCondition(ctx)
}
