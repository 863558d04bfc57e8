// stubapi is a development stand-in for the remote data API. It speaks
// the real session protocol: short-lived HS512 access tokens, single-use
// refresh tokens, 401 when there is no session and 419 when the access
// token has merely expired.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	codeSessionExpired = 419
	accessTTL          = 30 * time.Second
	refreshTTL         = 24 * time.Hour
)

type envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type stub struct {
	secret []byte

	mu       sync.Mutex
	sessions map[string]time.Time // refresh token -> expiry
}

func main() {
	s := &stub{
		secret:   []byte("stubapi-dev-secret"),
		sessions: make(map[string]time.Time),
	}

	http.HandleFunc("/auth/login", s.handleLogin)
	http.HandleFunc("/auth/refresh", s.handleRefresh)
	http.HandleFunc("/payment/orders", s.handleCreateOrder)

	log.Println("Stub remote API listening on :9090")
	if err := http.ListenAndServe(":9090", nil); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func (s *stub) issuePair() (tokenPair, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   "dev-user",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
	if err != nil {
		return tokenPair{}, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return tokenPair{}, err
	}
	refresh := base64.RawURLEncoding.EncodeToString(raw)

	s.mu.Lock()
	s.sessions[refresh] = now.Add(refreshTTL)
	s.mu.Unlock()

	return tokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *stub) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeEnvelope(w, http.StatusBadRequest, envelope{StatusCode: http.StatusBadRequest, Message: "email and password required"})
		return
	}

	pair, err := s.issuePair()
	if err != nil {
		writeEnvelope(w, http.StatusInternalServerError, envelope{StatusCode: http.StatusInternalServerError, Message: "token issue failed"})
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: true, StatusCode: http.StatusOK, Message: "ok", Data: pair})
}

func (s *stub) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeEnvelope(w, http.StatusUnauthorized, envelope{StatusCode: http.StatusUnauthorized, Message: "refresh token required"})
		return
	}

	// Single use: a presented token is deleted whether or not it is good.
	s.mu.Lock()
	expiry, ok := s.sessions[req.RefreshToken]
	delete(s.sessions, req.RefreshToken)
	s.mu.Unlock()

	if !ok || time.Now().After(expiry) {
		writeEnvelope(w, http.StatusUnauthorized, envelope{StatusCode: http.StatusUnauthorized, Message: "refresh token invalid or used"})
		return
	}

	pair, err := s.issuePair()
	if err != nil {
		writeEnvelope(w, http.StatusInternalServerError, envelope{StatusCode: http.StatusInternalServerError, Message: "token issue failed"})
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: true, StatusCode: http.StatusOK, Message: "ok", Data: pair})
}

func (s *stub) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.checkAccess(r); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			writeEnvelope(w, codeSessionExpired, envelope{StatusCode: codeSessionExpired, Message: "access token expired"})
			return
		}
		writeEnvelope(w, http.StatusUnauthorized, envelope{StatusCode: http.StatusUnauthorized, Message: "authenticate first"})
		return
	}

	var req struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		writeEnvelope(w, http.StatusBadRequest, envelope{StatusCode: http.StatusBadRequest, Message: "invalid order"})
		return
	}

	order := map[string]any{
		"id":       "order_" + uuid.NewString()[:12],
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: true, StatusCode: http.StatusOK, Message: "ok", Data: order})
}

func (s *stub) checkAccess(r *http.Request) error {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return errors.New("no bearer token")
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	_, err := jwt.ParseWithClaims(
		tokenStr,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
				return nil, errors.New("invalid signing method")
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
	)
	return err
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("write envelope: %v", err)
	}
}
