package httpapi

import (
	"net/http"
	"net/url"
	"strings"
)

var webPublicPrefixes = []string{
	"/auth/",
	"/api/",
	"/static/",
	"/css/",
	"/js/",
	"/images/",
	"/uploads/",
	"/_",
}

func webPublicPath(path string) bool {
	for _, p := range webPublicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return path == "/error" || path == "/favicon.ico"
}

// webAuthMiddleware gates browser pages on the token cookie. Unlike the API
// gate it does not consult the token registry: a cookie that carries a valid
// signature and maps to an existing user passes, so a logged-out cookie
// keeps working for pages until the token's natural expiry. Rejections
// redirect to the login page instead of returning JSON.
func (s *Server) webAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if webPublicPath(path) {
			next.ServeHTTP(w, r)
			return
		}

		token := cookieToken(r)
		if token == "" {
			if path == "/" || path == "" {
				http.Redirect(w, r, "/auth/login", http.StatusFound)
			} else {
				http.Redirect(w, r, "/auth/login?redirect="+url.QueryEscape(path), http.StatusFound)
			}
			return
		}

		user, ok := s.auth.Resolve(r.Context(), token)
		if !ok {
			http.Redirect(w, r, "/auth/login", http.StatusFound)
			return
		}

		ctx := WithIdentity(r.Context(), &Identity{User: user, Token: token})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func cookieToken(r *http.Request) string {
	c, err := r.Cookie("token")
	if err != nil {
		return ""
	}
	return c.Value
}
