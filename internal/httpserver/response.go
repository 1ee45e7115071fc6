package httpserver

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
)

type resultResponse struct {
	Success     bool   `json:"success"`
	RequiresTwo bool   `json:"requires_2fa,omitempty"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, resultResponse{Error: message})
}

func writeHTML(w http.ResponseWriter, status int, page *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Execute(w, data); err != nil {
		log.Printf("render %s: %v", page.Name(), err)
	}
}

// isProgrammatic mirrors the backend's AJAX detection: only marked requests get JSON.
func isProgrammatic(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}
