package httpapi

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/delcom/marketplace/internal/common"
	"github.com/delcom/marketplace/internal/dbx"
	"github.com/delcom/marketplace/internal/logging"
	"github.com/delcom/marketplace/internal/server/config"
	"github.com/delcom/marketplace/internal/server/models"
	authtokensrepo "github.com/delcom/marketplace/internal/server/repositories/authtokens"
	productsrepo "github.com/delcom/marketplace/internal/server/repositories/products"
	usersrepo "github.com/delcom/marketplace/internal/server/repositories/users"
	"github.com/delcom/marketplace/internal/server/services"
	_ "modernc.org/sqlite"
)

// In-memory repositories backing the handler tests.

type memUsersRepo struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byID: map[string]*models.User{}, byEmail: map[string]*models.User{}}
}

func (m *memUsersRepo) add(u *models.User) {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
}

func (m *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.ID = "00000000-0000-0000-0000-00000000000" + string(rune('1'+len(m.byID)))
	m.add(u)
	return u, nil
}

func (m *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memUsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

type memTokensRepo struct {
	byToken map[string]*models.AuthToken
}

func newMemTokensRepo() *memTokensRepo {
	return &memTokensRepo{byToken: map[string]*models.AuthToken{}}
}

func (m *memTokensRepo) Find(ctx context.Context, token string) (*models.AuthToken, error) {
	if t, ok := m.byToken[token]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memTokensRepo) FindByUserID(ctx context.Context, userID string) (*models.AuthToken, error) {
	for _, t := range m.byToken {
		if t.UserID == userID {
			return t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memTokensRepo) Save(ctx context.Context, userID string, token string) error {
	m.byToken[token] = &models.AuthToken{UserID: userID, Token: token, CreatedAt: time.Now()}
	return nil
}

func (m *memTokensRepo) DeleteByToken(ctx context.Context, token string) error {
	delete(m.byToken, token)
	return nil
}

type memProductsRepo struct {
	byID map[string]*models.Product
	next int
}

func newMemProductsRepo() *memProductsRepo {
	return &memProductsRepo{byID: map[string]*models.Product{}}
}

func (m *memProductsRepo) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	m.next++
	p.ID = "p" + string(rune('0'+m.next))
	m.byID[p.ID] = p
	return p, nil
}

func (m *memProductsRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memProductsRepo) List(ctx context.Context) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProductsRepo) ListByUserID(ctx context.Context, userID string) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range m.byID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProductsRepo) Update(ctx context.Context, p *models.Product) error {
	if _, ok := m.byID[p.ID]; !ok {
		return common.ErrorNotFound
	}
	m.byID[p.ID] = p
	return nil
}

func (m *memProductsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memProductsRepo) CountByCategory(ctx context.Context) ([]*models.CategoryCount, error) {
	counts := map[string]int64{}
	for _, p := range m.byID {
		counts[p.Category]++
	}
	var out []*models.CategoryCount
	for c, n := range counts {
		out = append(out, &models.CategoryCount{Category: c, Count: n})
	}
	return out, nil
}

func (m *memProductsRepo) CountByCondition(ctx context.Context) ([]*models.ConditionCount, error) {
	counts := map[string]int64{}
	for _, p := range m.byID {
		counts[p.Condition]++
	}
	var out []*models.ConditionCount
	for c, n := range counts {
		out = append(out, &models.ConditionCount{Condition: c, Count: n})
	}
	return out, nil
}

type memRepoManager struct {
	users    *memUsersRepo
	tokens   *memTokensRepo
	products *memProductsRepo
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *memRepoManager) Users(dbx.DBTX) usersrepo.Repository              { return m.users }
func (m *memRepoManager) AuthTokens(dbx.DBTX) authtokensrepo.Repository    { return m.tokens }
func (m *memRepoManager) Products(dbx.DBTX) productsrepo.Repository        { return m.products }

type noopFileStore struct{}

func (noopFileStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	return "/uploads/images/stub.png", nil
}
func (noopFileStore) Delete(ctx context.Context, fileURL string) error { return nil }
func (noopFileStore) ResolveURL(ctx context.Context, fileURL string) (string, error) {
	return fileURL, nil
}

type discardLogger struct{}

func (discardLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (discardLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (discardLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (discardLogger) Error(ctx context.Context, msg string, args ...any) {}
func (discardLogger) With(args ...any) logging.Logger                    { return discardLogger{} }

type testEnv struct {
	server   *Server
	auth     *services.AuthService
	users    *memUsersRepo
	tokens   *memTokensRepo
	products *memProductsRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", "file:httpapi_tests?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		Addr:          ":0",
		SecretKey:     "test-secret",
		TokenValidity: 24 * time.Hour,
	}

	rm := &memRepoManager{
		users:    newMemUsersRepo(),
		tokens:   newMemTokensRepo(),
		products: newMemProductsRepo(),
	}

	authSvc := services.NewAuthService(db, rm, cfg)
	productSvc := services.NewProductService(db, rm)
	srv := NewServer(cfg, discardLogger{}, authSvc, productSvc, noopFileStore{})

	return &testEnv{
		server:   srv,
		auth:     authSvc,
		users:    rm.users,
		tokens:   rm.tokens,
		products: rm.products,
	}
}

// seedUser registers a user directly in the fake repositories and returns
// it with a token already issued and registered.
func (e *testEnv) seedUser(t *testing.T, id, email string) (*models.User, string) {
	t.Helper()
	u := &models.User{ID: id, Name: "User " + id, Email: email}
	e.users.add(u)

	token, err := e.auth.Codec().Issue(id)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if err := e.tokens.Save(context.Background(), id, token); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	return u, token
}

func productOwnedBy(userID string) *models.Product {
	return &models.Product{UserID: userID, Name: "Item", Price: 10, Category: "Misc", Condition: "used"}
}
