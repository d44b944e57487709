package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/delcom/marketplace/internal/common"
)

func apiPublicPath(path string) bool {
	return strings.HasPrefix(path, "/api/auth") ||
		strings.HasPrefix(path, "/api/public") ||
		path == "/error"
}

// apiAuthMiddleware gates /api requests on the Authorization header. The
// token must carry a valid signature, decode to a known user id, and still
// be present in the registry under that same user; the registry cross-check
// is what makes logout effective while the signature is still within its
// validity window.
func (s *Server) apiAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		raw := r.Header.Get("Authorization")
		if raw == "" {
			respondFail(w, http.StatusUnauthorized, "Authentication token not found")
			return
		}

		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			respondFail(w, http.StatusUnauthorized, "Authentication token not found")
			return
		}

		// Expiry is deliberately ignored here; the registry check below
		// decides whether the token is still live.
		if !s.auth.Codec().Validate(token, true) {
			respondFail(w, http.StatusUnauthorized, "Invalid authentication token")
			return
		}

		userID, err := s.auth.Codec().ExtractUserID(token)
		if err != nil {
			respondFail(w, http.StatusUnauthorized, "Invalid authentication token format")
			return
		}

		registered, ownerID, err := s.auth.TokenOwner(r.Context(), token)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !registered || ownerID != userID {
			respondFail(w, http.StatusUnauthorized, "Authentication token has expired")
			return
		}

		user, err := s.auth.UserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				respondFail(w, http.StatusNotFound, "User not found")
				return
			}
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		ctx := WithIdentity(r.Context(), &Identity{User: user, Token: token})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
