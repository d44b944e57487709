package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// serveStoredFile redirects a stored file URL to whatever the active file
// store resolves it to (a presigned link for the S3 backend).
func (s *Server) serveStoredFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	resolved, err := s.files.ResolveURL(r.Context(), "/files/images/"+name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, resolved, http.StatusFound)
}
