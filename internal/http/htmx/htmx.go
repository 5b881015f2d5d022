// Package htmx holds the request and response headers the admin panel
// exchanges with htmx.
package htmx

import (
	"net/http"
	"strings"
)

const (
	// RequestHeader is set to "true" on every htmx-initiated request.
	RequestHeader = "HX-Request"

	// RedirectHeader makes htmx perform a full client-side navigation.
	RedirectHeader = "HX-Redirect"

	// ReswapHeader overrides the swap strategy of the triggering element.
	ReswapHeader = "HX-Reswap"
)

// IsRequest reports whether the request was initiated by htmx.
func IsRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeader), "true")
}

// Redirect sends the browser to target: via HX-Redirect for htmx requests,
// a 303 otherwise.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsRequest(r) {
		w.Header().Set(RedirectHeader, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// NoSwap answers an htmx request without changing the page.
func NoSwap(w http.ResponseWriter) {
	w.Header().Set(ReswapHeader, "none")
	w.WriteHeader(http.StatusNoContent)
}
