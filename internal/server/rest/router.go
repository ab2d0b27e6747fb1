package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the public API. Fixed paths under /api/vocab are
// registered before /api/vocab/{id} so they are not captured as ids.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(accessLog(h.logger))

	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.HandleFunc("/register", h.register).Methods(http.MethodPost)
	authAPI.HandleFunc("/token", h.login).Methods(http.MethodPost)
	authAPI.Handle("/me", authenticate(h.users, h.logger)(http.HandlerFunc(h.me))).Methods(http.MethodGet)

	vocab := r.PathPrefix("/api/vocab").Subrouter()
	vocab.Use(authenticate(h.users, h.logger))
	vocab.HandleFunc("/vocabularies", h.listVocabularies).Methods(http.MethodGet)
	vocab.HandleFunc("/vocabularies", h.createVocabulary).Methods(http.MethodPost)
	vocab.HandleFunc("/categories", h.categories).Methods(http.MethodGet)
	vocab.HandleFunc("/favorites", h.favorites).Methods(http.MethodGet)
	vocab.HandleFunc("/favorites/{id}", h.addFavorite).Methods(http.MethodPost)
	vocab.HandleFunc("/favorites/{id}", h.removeFavorite).Methods(http.MethodDelete)
	vocab.HandleFunc("/{id}/audio", h.attachAudio).Methods(http.MethodPost)
	vocab.HandleFunc("/{id}/audio", h.audioURL).Methods(http.MethodGet)
	vocab.HandleFunc("/{id}", h.getVocabulary).Methods(http.MethodGet)
	vocab.HandleFunc("/{id}", h.deleteVocabulary).Methods(http.MethodDelete)

	return r
}
