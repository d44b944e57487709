package httpapi

import (
	"net/url"
	"strings"
)

// SanitizeRedirect validates a client-supplied "return to" path from the
// login page's ?redirect= parameter and returns a safe site-local path.
// The value is percent-decoded exactly once; anything that is not a plain
// absolute path within this site collapses to "/":
//   - undecodable input
//   - empty input
//   - paths not starting with "/" (no open redirects to other hosts)
//   - paths starting with "//" (scheme-relative URLs)
//   - paths containing ".." anywhere (no traversal)
func SanitizeRedirect(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return "/"
	}

	if decoded == "" ||
		!strings.HasPrefix(decoded, "/") ||
		strings.HasPrefix(decoded, "//") ||
		strings.Contains(decoded, "..") {
		return "/"
	}

	return decoded
}
