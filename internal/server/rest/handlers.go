package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
	"github.com/dmitrijs2005/vocabkeeper/internal/logging"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/models"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/services"
	"github.com/gorilla/mux"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// AuthGateway is the subset of services.UserService used by the transport.
type AuthGateway interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.AccessToken, error)
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// Vocabularies is the subset of services.VocabularyService used by the transport.
type Vocabularies interface {
	Create(ctx context.Context, user *models.User, in services.VocabularyInput) (*models.Vocabulary, error)
	Get(ctx context.Context, user *models.User, id string) (*models.Vocabulary, error)
	List(ctx context.Context, user *models.User, filter models.VocabularyFilter) ([]*models.Vocabulary, error)
	Categories(ctx context.Context, user *models.User) ([]string, error)
	Delete(ctx context.Context, user *models.User, id string) (*services.DeleteResult, error)
	AddFavorite(ctx context.Context, user *models.User, vocabularyID string) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, user *models.User, vocabularyID string) error
	Favorites(ctx context.Context, user *models.User) ([]*models.Vocabulary, error)
	AttachAudio(ctx context.Context, user *models.User, id string) (string, error)
	AudioURL(ctx context.Context, user *models.User, id string) (string, error)
}

type Handler struct {
	users  AuthGateway
	vocab  Vocabularies
	logger logging.Logger
}

func NewHandler(users AuthGateway, vocab Vocabularies, logger logging.Logger) *Handler {
	return &Handler{users: users, vocab: vocab, logger: logger.With("module", "rest")}
}

type credentials struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type vocabularyRequest struct {
	Word     string `json:"word"`
	Meaning  string `json:"meaning"`
	Example  string `json:"example"`
	Category string `json:"category"`
	Language string `json:"language"`
}

type messageResponse struct {
	Message    string   `json:"message"`
	Categories []string `json:"categories"`
}

type urlResponse struct {
	URL string `json:"url"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	u, err := h.users.Register(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// login accepts the OAuth2 password form (username, password) or a JSON
// body with email or username.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	email, password, err := readLogin(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	tok, err := h.users.Login(r.Context(), email, password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: tok.Token,
		TokenType:   common.TokenTypeBearer,
		ExpiresAt:   tok.ExpiresAt,
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (h *Handler) listVocabularies(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	list, err := h.vocab.List(r.Context(), userFrom(r.Context()), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) createVocabulary(w http.ResponseWriter, r *http.Request) {
	var in vocabularyRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	v, err := h.vocab.Create(r.Context(), userFrom(r.Context()), services.VocabularyInput(in))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.vocab.Categories(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) favorites(w http.ResponseWriter, r *http.Request) {
	list, err := h.vocab.Favorites(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	if _, err := h.vocab.AddFavorite(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Added to favorites"})
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.vocab.RemoveFavorite(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Removed from favorites"})
}

func (h *Handler) getVocabulary(w http.ResponseWriter, r *http.Request) {
	v, err := h.vocab.Get(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) deleteVocabulary(w http.ResponseWriter, r *http.Request) {
	res, err := h.vocab.Delete(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Vocabulary deleted", Categories: res.Categories})
}

func (h *Handler) attachAudio(w http.ResponseWriter, r *http.Request) {
	url, err := h.vocab.AttachAudio(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, urlResponse{URL: url})
}

func (h *Handler) audioURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.vocab.AudioURL(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, urlResponse{URL: url})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body", common.ErrorValidation)
	}
	return nil
}

func readLogin(w http.ResponseWriter, r *http.Request) (string, string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var in credentials
		if err := decodeJSON(w, r, &in); err != nil {
			return "", "", err
		}
		email := in.Email
		if email == "" {
			email = in.Username
		}
		return email, in.Password, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return "", "", fmt.Errorf("%w: invalid form body", common.ErrorValidation)
	}
	return r.PostForm.Get("username"), r.PostForm.Get("password"), nil
}

func parseFilter(r *http.Request) (models.VocabularyFilter, error) {
	q := r.URL.Query()
	f := models.VocabularyFilter{Category: q.Get("category"), Limit: models.MaxListLimit}

	if s := q.Get("skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return f, fmt.Errorf("%w: skip must be a non-negative integer", common.ErrorValidation)
		}
		f.Skip = n
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return f, fmt.Errorf("%w: limit must be a positive integer", common.ErrorValidation)
		}
		f.Limit = n
	}
	return f.Normalize(), nil
}
