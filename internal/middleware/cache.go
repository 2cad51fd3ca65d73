package middleware

import (
	"net/http"
	"path"
	"strings"
)

// NoStore sets strict no-cache headers on every response.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setNoStore(w.Header())
		next.ServeHTTP(w, r)
	})
}

// CachePolicy keeps API responses out of caches while letting static assets be
// cached: a year for images and fonts, a day for scripts and stylesheets.
func CachePolicy(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		switch p := r.URL.Path; {
		case strings.HasPrefix(p, "/api/"):
			setNoStore(h)
		case immutableAssets[strings.ToLower(path.Ext(p))]:
			h.Set("Cache-Control", "public, max-age=31536000, immutable")
		case strings.HasSuffix(p, ".js") || strings.HasSuffix(p, ".css"):
			h.Set("Cache-Control", "public, max-age=86400, s-maxage=86400")
		}
		next.ServeHTTP(w, r)
	})
}

var immutableAssets = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".ico": true, ".svg": true,
	".webp": true, ".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
}

func setNoStore(h http.Header) {
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
