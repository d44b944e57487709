package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// rawQueryParam returns the still-encoded value of a query parameter.
func rawQueryParam(r *http.Request, name string) string {
	for _, pair := range strings.Split(r.URL.RawQuery, "&") {
		if v, ok := strings.CutPrefix(pair, name+"="); ok {
			return v
		}
	}
	return ""
}

func (s *Server) setTokenCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
}

// loginPage renders the login form. An already-authenticated visitor is sent
// straight to the sanitized redirect target.
//
// The redirect parameter is taken from the raw query string so that
// SanitizeRedirect performs the one and only percent-decoding pass.
func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	redirect := rawQueryParam(r, "redirect")

	if token := cookieToken(r); token != "" {
		if _, ok := s.auth.Resolve(r.Context(), token); ok {
			http.Redirect(w, r, SanitizeRedirect(redirect), http.StatusFound)
			return
		}
	}

	s.renderPage(w, r, "login", map[string]any{"Redirect": redirect})
}

func (s *Server) registerPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "register", nil)
}

// login verifies form credentials, sets the token cookie, and returns the
// token in the response envelope.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusOK, "Invalid form data")
		return
	}

	token, err := s.auth.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		respondError(w, http.StatusOK, loginErrorMessage(err))
		return
	}

	s.setTokenCookie(w, token, s.cookieMaxAge)
	respondSuccess(w, "Login successful", token)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusOK, "Invalid form data")
		return
	}

	user, err := s.auth.Register(r.Context(),
		r.PostFormValue("name"), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		respondError(w, http.StatusOK, registerErrorMessage(err))
		return
	}

	respondSuccess(w, "Registration successful", toUserPayload(user))
}

// logout drops the registry row if a cookie is present and clears the
// cookie unconditionally.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if token := cookieToken(r); token != "" {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	s.setTokenCookie(w, "", -1)
	respondSuccess(w, "Logout successful", nil)
}

// --- bearer-token API versions ---

type credentialsPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) apiRegister(w http.ResponseWriter, r *http.Request) {
	var in credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.auth.Register(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		respondError(w, http.StatusOK, registerErrorMessage(err))
		return
	}

	respondSuccess(w, "Registration successful", toUserPayload(user))
}

func (s *Server) apiLogin(w http.ResponseWriter, r *http.Request) {
	var in credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := s.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		respondError(w, http.StatusOK, loginErrorMessage(err))
		return
	}

	respondSuccess(w, "Login successful", token)
}

func (s *Server) apiLogout(w http.ResponseWriter, r *http.Request) {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token != "" {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	respondSuccess(w, "Logout successful", nil)
}
