package httpapi

import (
	"time"

	"github.com/delcom/marketplace/internal/server/models"
)

// userPayload is the wire shape of a user; the password hash never leaves
// the server.
type userPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserPayload(u *models.User) *userPayload {
	return &userPayload{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type productPayload struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductPayload(p *models.Product) *productPayload {
	return &productPayload{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Condition:   p.Condition,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductPayloads(list []*models.Product) []*productPayload {
	out := make([]*productPayload, 0, len(list))
	for _, p := range list {
		out = append(out, toProductPayload(p))
	}
	return out
}

type categoryCountPayload struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type conditionCountPayload struct {
	Condition string `json:"condition"`
	Count     int64  `json:"count"`
}
