package server

import "net/http"

// NewRouter wires the handler onto its routes.
func NewRouter(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", h.Upload)
	mux.HandleFunc("GET /api/status/{id}", h.Status)
	mux.HandleFunc("GET /api/result/{id}/{name}", h.Result)
	mux.HandleFunc("GET /api/history", h.History)
	mux.HandleFunc("GET /api/settings/pair-lines", h.GetToggle)
	mux.HandleFunc("PUT /api/settings/pair-lines", h.SetToggle)
	return mux
}
