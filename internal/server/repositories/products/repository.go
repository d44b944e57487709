package products

import (
	"context"

	"github.com/delcom/marketplace/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context) ([]*models.CategoryCount, error)
	CountByCondition(ctx context.Context) ([]*models.ConditionCount, error)
}
