package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/delcom/marketplace/internal/common"
	"github.com/delcom/marketplace/internal/server/models"
	"github.com/gorilla/mux"
)

const maxUploadBytes = 10 << 20

// productForm reads the multipart form fields shared by the add and edit
// pages. The image part is optional.
func (s *Server) productForm(r *http.Request) (*models.Product, []byte, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, "", err
	}

	price, err := strconv.ParseFloat(r.PostFormValue("price"), 64)
	if err != nil {
		return nil, nil, "", err
	}

	p := &models.Product{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Price:       price,
		Category:    r.PostFormValue("category"),
		Condition:   r.PostFormValue("condition"),
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return p, nil, "", nil
		}
		return nil, nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, "", err
	}

	return p, data, header.Filename, nil
}

// addProduct handles the add form submission. The page is behind the web
// gate, so an identity is always present.
func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusOK, "You must be logged in")
		return
	}

	product, image, filename, err := s.productForm(r)
	if err != nil {
		respondError(w, http.StatusOK, "Invalid form data")
		return
	}

	if len(image) > 0 {
		url, err := s.files.Save(r.Context(), filename, image)
		if err != nil {
			s.logger.Error(r.Context(), "image upload failed", "error", err.Error())
			respondError(w, http.StatusOK, "Could not store image")
			return
		}
		product.ImageURL = url
	}

	created, err := s.products.Create(r.Context(), id.User.ID, product)
	if err != nil {
		respondError(w, http.StatusOK, "Could not create product")
		return
	}

	respondSuccess(w, "Product created", toProductPayload(created))
}

func (s *Server) editProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusOK, "You must be logged in")
		return
	}

	product, image, filename, err := s.productForm(r)
	if err != nil {
		respondError(w, http.StatusOK, "Invalid form data")
		return
	}
	product.ID = mux.Vars(r)["id"]

	if len(image) > 0 {
		// Replace the stored image; dropping the old file is best effort.
		if old, err := s.products.Get(r.Context(), product.ID); err == nil && old.ImageURL != "" {
			if err := s.files.Delete(r.Context(), old.ImageURL); err != nil {
				s.logger.Warn(r.Context(), "could not delete old image", "error", err.Error())
			}
		}
		url, err := s.files.Save(r.Context(), filename, image)
		if err != nil {
			s.logger.Error(r.Context(), "image upload failed", "error", err.Error())
			respondError(w, http.StatusOK, "Could not store image")
			return
		}
		product.ImageURL = url
	}

	updated, err := s.products.Update(r.Context(), id.User.ID, product)
	if err != nil {
		respondError(w, http.StatusOK, productErrorMessage(err))
		return
	}

	respondSuccess(w, "Product updated", toProductPayload(updated))
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusOK, "You must be logged in")
		return
	}

	imageURL, err := s.products.Delete(r.Context(), id.User.ID, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusOK, productErrorMessage(err))
		return
	}

	if imageURL != "" {
		if err := s.files.Delete(r.Context(), imageURL); err != nil {
			s.logger.Warn(r.Context(), "could not delete image", "error", err.Error())
		}
	}

	respondSuccess(w, "Product deleted", nil)
}

func productErrorMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return "Product not found"
	case errors.Is(err, common.ErrNotOwner):
		return "You do not own this product"
	default:
		return "Internal server error"
	}
}

// --- pages ---

func (s *Server) productsPage(w http.ResponseWriter, r *http.Request) {
	list, err := s.products.List(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	id, _ := IdentityFrom(r.Context())
	s.renderPage(w, r, "products", map[string]any{
		"Products":    list,
		"CurrentUser": identityUser(id),
	})
}

func (s *Server) myProductsPage(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}
	list, err := s.products.ListByUser(r.Context(), id.User.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, r, "my_products", map[string]any{
		"Products":    list,
		"CurrentUser": id.User,
	})
}

func (s *Server) productDetailPage(w http.ResponseWriter, r *http.Request) {
	product, err := s.products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Redirect(w, r, "/products", http.StatusFound)
		return
	}

	id, _ := IdentityFrom(r.Context())
	isOwner := id != nil && id.User.ID == product.UserID

	imageURL := product.ImageURL
	if imageURL != "" {
		if resolved, err := s.files.ResolveURL(r.Context(), imageURL); err == nil {
			imageURL = resolved
		}
	}

	s.renderPage(w, r, "product_detail", map[string]any{
		"Product":     product,
		"ImageURL":    imageURL,
		"IsOwner":     isOwner,
		"CurrentUser": identityUser(id),
	})
}

func (s *Server) addProductPage(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}
	s.renderPage(w, r, "product_add", map[string]any{"CurrentUser": id.User})
}

func (s *Server) editProductPage(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}

	product, err := s.products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil || product.UserID != id.User.ID {
		http.Redirect(w, r, "/products", http.StatusFound)
		return
	}

	s.renderPage(w, r, "product_edit", map[string]any{
		"Product":     product,
		"CurrentUser": id.User,
	})
}

func identityUser(id *Identity) any {
	if id == nil {
		return nil
	}
	return id.User
}
