package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/delcom/marketplace/internal/server/models"
	"github.com/gorilla/mux"
)

type productInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Condition   string  `json:"condition"`
	ImageURL    string  `json:"image_url"`
}

func (in *productInput) toModel() *models.Product {
	return &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Condition:   in.Condition,
		ImageURL:    in.ImageURL,
	}
}

func (s *Server) apiListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := s.products.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondSuccess(w, "Products", toProductPayloads(list))
}

func (s *Server) apiMyProducts(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	list, err := s.products.ListByUser(r.Context(), id.User.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondSuccess(w, "Products", toProductPayloads(list))
}

func (s *Server) apiGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondFail(w, http.StatusNotFound, "Product not found")
		return
	}
	respondSuccess(w, "Product", toProductPayload(product))
}

func (s *Server) apiCreateProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := s.products.Create(r.Context(), id.User.ID, in.toModel())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondSuccess(w, "Product created", toProductPayload(created))
}

func (s *Server) apiUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product := in.toModel()
	product.ID = mux.Vars(r)["id"]

	updated, err := s.products.Update(r.Context(), id.User.ID, product)
	if err != nil {
		respondFail(w, productErrorStatus(err), productErrorMessage(err))
		return
	}
	respondSuccess(w, "Product updated", toProductPayload(updated))
}

func (s *Server) apiDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	imageURL, err := s.products.Delete(r.Context(), id.User.ID, mux.Vars(r)["id"])
	if err != nil {
		respondFail(w, productErrorStatus(err), productErrorMessage(err))
		return
	}

	if imageURL != "" {
		if err := s.files.Delete(r.Context(), imageURL); err != nil {
			s.logger.Warn(r.Context(), "could not delete image", "error", err.Error())
		}
	}
	respondSuccess(w, "Product deleted", nil)
}

func (s *Server) apiChartCategories(w http.ResponseWriter, r *http.Request) {
	stats, err := s.products.CountByCategory(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]*categoryCountPayload, 0, len(stats))
	for _, c := range stats {
		out = append(out, &categoryCountPayload{Category: c.Category, Count: c.Count})
	}
	respondSuccess(w, "Category statistics", out)
}

func (s *Server) apiChartConditions(w http.ResponseWriter, r *http.Request) {
	stats, err := s.products.CountByCondition(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]*conditionCountPayload, 0, len(stats))
	for _, c := range stats {
		out = append(out, &conditionCountPayload{Condition: c.Condition, Count: c.Count})
	}
	respondSuccess(w, "Condition statistics", out)
}
