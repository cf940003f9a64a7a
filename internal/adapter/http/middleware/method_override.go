package middleware

import (
	"net/http"
	"strings"
)

// MethodOverride lets HTML forms express PUT and DELETE through a POST
// carrying "_method", either as a query parameter or as an urlencoded
// form field. Multipart bodies must use the query form so the body stays
// untouched for the handler.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := r.URL.Query().Get("_method")
			if override == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
				_ = r.ParseForm()
				override = r.PostFormValue("_method")
			}
			switch strings.ToUpper(override) {
			case http.MethodPut, http.MethodDelete, http.MethodPatch:
				r.Method = strings.ToUpper(override)
			}
		}
		next.ServeHTTP(w, r)
	})
}
