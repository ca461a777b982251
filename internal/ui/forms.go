package ui

import (
	"net/http"
	"strings"
)

// maxFormBytes bounds urlencoded form bodies.
const maxFormBytes = 1 << 20

func parseFormOrRenderBadRequest(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		renderHTML(w, http.StatusBadRequest, errorPage("Invalid Request", "Could not parse form body."))
		return false
	}
	return true
}

func formString(values map[string][]string, key string) string {
	if values == nil {
		return ""
	}
	return strings.TrimSpace(first(values[key]))
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
