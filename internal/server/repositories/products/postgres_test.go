package products

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/delcom/marketplace/internal/common"
	"github.com/delcom/marketplace/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func productColumns() []string {
	return []string{"id", "user_id", "name", "description", "price", "category", "condition", "image_url", "created_at", "updated_at"}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+products\b.*RETURNING\s+id`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("u1", "Bike", "Old bike", 120.5, "Vehicles", "used", "/uploads/images/x.png").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("p1", now, now))

	got, err := repo.Create(context.Background(), &models.Product{
		UserID:      "u1",
		Name:        "Bike",
		Description: "Old bike",
		Price:       120.5,
		Category:    "Vehicles",
		Condition:   "used",
		ImageURL:    "/uploads/images/x.png",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "p1" {
		t.Fatalf("unexpected id: %v", got.ID)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+products\s+WHERE\s+id\s*=\s*\$1`

	mock.ExpectQuery(q).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestList_ReturnsRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+products\s+ORDER\s+BY\s+created_at\s+DESC`

	now := time.Now()
	rows := sqlmock.NewRows(productColumns()).
		AddRow("p1", "u1", "Bike", "Old bike", 120.5, "Vehicles", "used", "", now, now).
		AddRow("p2", "u2", "Lamp", "Desk lamp", 15.0, "Furniture", "new", "", now, now)

	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestListByUserID_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+products\s+WHERE\s+user_id\s*=\s*\$1`

	mock.ExpectQuery(q).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(productColumns()))

	got, err := repo.ListByUserID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty result, got %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+products\s+SET\b`

	mock.ExpectExec(q).
		WithArgs("Bike", "Old bike", 120.5, "Vehicles", "used", "", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Product{
		ID:          "missing",
		Name:        "Bike",
		Description: "Old bike",
		Price:       120.5,
		Category:    "Vehicles",
		Condition:   "used",
	})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+products\s+WHERE\s+id\s*=\s*\$1`

	mock.ExpectExec(q).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCountByCategory(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+category,\s*COUNT\(\*\)\s+FROM\s+products\s+GROUP\s+BY\s+category`

	rows := sqlmock.NewRows([]string{"category", "count"}).
		AddRow("Furniture", 3).
		AddRow("Vehicles", 1)

	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.CountByCategory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Category != "Furniture" || got[0].Count != 3 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestCountByCondition(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+condition,\s*COUNT\(\*\)\s+FROM\s+products\s+GROUP\s+BY\s+condition`

	rows := sqlmock.NewRows([]string{"condition", "count"}).
		AddRow("new", 2).
		AddRow("used", 5)

	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.CountByCondition(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].Condition != "used" || got[1].Count != 5 {
		t.Fatalf("unexpected result: %+v", got)
	}
}
