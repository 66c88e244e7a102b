// Package apitest provides an in-memory fake of the account service wire
// contract, for tests, examples and local development. It stores only what
// the real service would see: email, auth hash and opaque ciphertext blobs.
package apitest

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nexakey/nexakey/accountapi"
)

type account struct {
	profile  accountapi.Profile
	authHash string
	items    map[string]*accountapi.VaultItem
	order    []string
}

// Server is an in-memory account service implementing http.Handler.
type Server struct {
	mu       sync.Mutex
	router   chi.Router
	accounts map[string]*account // keyed by email
	tokens   map[string]string   // token -> email
	now      func() time.Time
}

// New creates an empty fake account service.
func New() *Server {
	s := &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		now:      time.Now,
	}
	r := chi.NewRouter()
	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)
	r.Get("/api/user/profile", s.withAuth(s.handleProfile))
	r.Get("/api/vault/items", s.withAuth(s.handleListItems))
	r.Post("/api/vault/items", s.withAuth(s.handleCreateItem))
	r.Put("/api/vault/items/{itemID}", s.withAuth(s.handleUpdateItem))
	r.Delete("/api/vault/items/{itemID}", s.withAuth(s.handleDeleteItem))
	s.router = r
	return s
}

// SetNow overrides the clock used for item timestamps. Useful for stale-item
// audit tests.
func (s *Server) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email              string `json:"email"`
		MasterPasswordHash string `json:"master_password_hash"`
		BiometricEnabled   bool   `json:"biometric_enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.MasterPasswordHash == "" {
		writeError(w, http.StatusBadRequest, "email and master_password_hash are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[req.Email]; exists {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	acct := &account{
		profile: accountapi.Profile{
			ID:               uuid.NewString(),
			Email:            req.Email,
			BiometricEnabled: req.BiometricEnabled,
			CreatedAt:        s.now().UTC(),
		},
		authHash: req.MasterPasswordHash,
		items:    make(map[string]*accountapi.VaultItem),
	}
	s.accounts[req.Email] = acct

	token := uuid.NewString()
	s.tokens[token] = req.Email

	writeJSON(w, http.StatusOK, accountapi.AuthResult{AccessToken: token, User: acct.profile})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email              string `json:"email"`
		MasterPasswordHash string `json:"master_password_hash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[req.Email]
	if !ok || acct.authHash != req.MasterPasswordHash {
		// Same response whether the email or the hash was wrong.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()
	s.tokens[token] = req.Email

	acct.profile.VaultItemsCount = len(acct.items)
	writeJSON(w, http.StatusOK, accountapi.AuthResult{AccessToken: token, User: acct.profile})
}

func (s *Server) withAuth(next func(w http.ResponseWriter, r *http.Request, acct *account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		email, ok := s.tokens[token]
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r, s.accounts[email])
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, acct *account) {
	acct.profile.VaultItemsCount = len(acct.items)
	writeJSON(w, http.StatusOK, acct.profile)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request, acct *account) {
	items := make([]accountapi.VaultItem, 0, len(acct.items))
	for _, id := range acct.order {
		if itm, ok := acct.items[id]; ok {
			items = append(items, *itm)
		}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request, acct *account) {
	var req struct {
		ItemType      string `json:"item_type"`
		EncryptedData string `json:"encrypted_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemType == "" || req.EncryptedData == "" {
		writeError(w, http.StatusBadRequest, "item_type and encrypted_data are required")
		return
	}

	now := s.now().UTC()
	itm := &accountapi.VaultItem{
		ID:            uuid.NewString(),
		UserID:        acct.profile.ID,
		ItemType:      req.ItemType,
		EncryptedData: req.EncryptedData,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	acct.items[itm.ID] = itm
	acct.order = append(acct.order, itm.ID)

	writeJSON(w, http.StatusOK, itm)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request, acct *account) {
	itm, ok := acct.items[chi.URLParam(r, "itemID")]
	if !ok {
		writeError(w, http.StatusNotFound, "vault item not found")
		return
	}

	var req struct {
		EncryptedData string `json:"encrypted_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EncryptedData == "" {
		writeError(w, http.StatusBadRequest, "encrypted_data is required")
		return
	}

	itm.EncryptedData = req.EncryptedData
	itm.UpdatedAt = s.now().UTC()
	writeJSON(w, http.StatusOK, itm)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request, acct *account) {
	id := chi.URLParam(r, "itemID")
	if _, ok := acct.items[id]; !ok {
		writeError(w, http.StatusNotFound, "vault item not found")
		return
	}
	delete(acct.items, id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
