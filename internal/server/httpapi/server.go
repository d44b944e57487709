package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/delcom/marketplace/internal/logging"
	"github.com/delcom/marketplace/internal/server/config"
	"github.com/delcom/marketplace/internal/server/services"
	"github.com/gorilla/mux"
)

// Server is the HTTP front of the marketplace: routing, the two auth gates,
// and the handlers.
type Server struct {
	address       string
	logger        logging.Logger
	auth          *services.AuthService
	products      *services.ProductService
	files         services.FileStore
	cookieMaxAge  int
}

// NewServer wires the HTTP server to the services.
func NewServer(cfg *config.Config, l logging.Logger, auth *services.AuthService,
	products *services.ProductService, files services.FileStore) *Server {
	return &Server{
		address:      cfg.Addr,
		logger:       l.With("module", "http_server"),
		auth:         auth,
		products:     products,
		files:        files,
		cookieMaxAge: int(cfg.TokenValidity.Seconds()),
	}
}

// Handler builds the full route table with the gates attached.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogMiddleware)

	// API surface, bearer-token gated.
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.apiAuthMiddleware)
	api.HandleFunc("/auth/register", s.apiRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.apiLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.apiLogout).Methods(http.MethodPost)
	api.HandleFunc("/products", s.apiListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", s.apiCreateProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/my", s.apiMyProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", s.apiGetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", s.apiUpdateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", s.apiDeleteProduct).Methods(http.MethodDelete)
	api.HandleFunc("/charts/categories", s.apiChartCategories).Methods(http.MethodGet)
	api.HandleFunc("/charts/conditions", s.apiChartConditions).Methods(http.MethodGet)

	// Web surface, cookie gated.
	web := r.PathPrefix("/").Subrouter()
	web.Use(s.webAuthMiddleware)
	web.HandleFunc("/", s.homePage).Methods(http.MethodGet)
	web.HandleFunc("/auth/login", s.loginPage).Methods(http.MethodGet)
	web.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	web.HandleFunc("/auth/register", s.registerPage).Methods(http.MethodGet)
	web.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	web.HandleFunc("/auth/logout", s.logout).Methods(http.MethodPost)
	web.HandleFunc("/products", s.productsPage).Methods(http.MethodGet)
	web.HandleFunc("/products/my-products", s.myProductsPage).Methods(http.MethodGet)
	web.HandleFunc("/products/add", s.addProductPage).Methods(http.MethodGet)
	web.HandleFunc("/products/add", s.addProduct).Methods(http.MethodPost)
	web.HandleFunc("/products/{id}", s.productDetailPage).Methods(http.MethodGet)
	web.HandleFunc("/products/{id}/edit", s.editProductPage).Methods(http.MethodGet)
	web.HandleFunc("/products/{id}/edit", s.editProduct).Methods(http.MethodPost)
	web.HandleFunc("/products/{id}/delete", s.deleteProduct).Methods(http.MethodPost)
	web.HandleFunc("/charts", s.chartsPage).Methods(http.MethodGet)
	web.HandleFunc("/files/images/{name}", s.serveStoredFile).Methods(http.MethodGet)

	if local, ok := s.files.(*services.LocalFileStore); ok {
		fs := http.StripPrefix("/uploads/images/", http.FileServer(http.Dir(local.Dir())))
		web.PathPrefix("/uploads/images/").Handler(fs).Methods(http.MethodGet)
	}

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
