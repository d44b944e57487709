package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/delcom/marketplace/internal/common"
	"github.com/delcom/marketplace/internal/dbx"
	"github.com/delcom/marketplace/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {

	query :=
		`INSERT INTO products (user_id, name, description, price, category, condition, image_url)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		product.UserID, product.Name, product.Description, product.Price,
		product.Category, product.Condition, product.ImageURL).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return product, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query :=
		`SELECT id, user_id, name, description, price, category, condition, image_url, created_at, updated_at
		 FROM products
		 WHERE id = $1
		 `

	p := &models.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Description, &p.Price,
		&p.Category, &p.Condition, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Product, error) {
	query :=
		`SELECT id, user_id, name, description, price, category, condition, image_url, created_at, updated_at
		 FROM products
		 ORDER BY created_at DESC
		 `
	return r.queryProducts(ctx, query)
}

func (r *PostgresRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Product, error) {
	query :=
		`SELECT id, user_id, name, description, price, category, condition, image_url, created_at, updated_at
		 FROM products
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `
	return r.queryProducts(ctx, query, userID)
}

func (r *PostgresRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Price,
			&p.Category, &p.Condition, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, product *models.Product) error {
	query :=
		`UPDATE products
		 SET name = $1, description = $2, price = $3, category = $4, condition = $5, image_url = $6, updated_at = now()
		 WHERE id = $7
		 `

	res, err := r.db.ExecContext(ctx, query,
		product.Name, product.Description, product.Price,
		product.Category, product.Condition, product.ImageURL, product.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM products
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) CountByCategory(ctx context.Context) ([]*models.CategoryCount, error) {
	query :=
		`SELECT category, COUNT(*)
		 FROM products
		 GROUP BY category
		 ORDER BY category
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.CategoryCount
	for rows.Next() {
		c := &models.CategoryCount{}
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) CountByCondition(ctx context.Context) ([]*models.ConditionCount, error) {
	query :=
		`SELECT condition, COUNT(*)
		 FROM products
		 GROUP BY condition
		 ORDER BY condition
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ConditionCount
	for rows.Next() {
		c := &models.ConditionCount{}
		if err := rows.Scan(&c.Condition, &c.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
