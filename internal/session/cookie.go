package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/util"
)

// Cookie names are part of the contract with the storefront frontend.
const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// CookieStore keeps the pair in two HttpOnly cookies on the request's
// response. It only works on the response-producing path; handlers pass it
// down to the services that need the session.
type CookieStore struct {
	ctx echo.Context
	cfg *util.CookieConfig
}

func NewCookieStore(ctx echo.Context, cfg *util.CookieConfig) *CookieStore {
	return &CookieStore{ctx: ctx, cfg: cfg}
}

func (s *CookieStore) Get() (models.TokenPair, bool) {
	access, err := s.ctx.Cookie(AccessCookieName)
	if err != nil {
		access = &http.Cookie{}
	}
	refresh, err := s.ctx.Cookie(RefreshCookieName)
	if err != nil {
		refresh = &http.Cookie{}
	}

	pair := models.TokenPair{
		AccessToken:  access.Value,
		RefreshToken: refresh.Value,
	}
	if pair.Empty() {
		return models.TokenPair{}, false
	}
	return pair, true
}

// Set writes both cookies onto the same response. Within one request that
// is the atomic pair replacement: the browser either receives the whole
// new pair or, if the response never completes, keeps the old one.
func (s *CookieStore) Set(pair models.TokenPair) {
	s.ctx.SetCookie(s.cookie(AccessCookieName, pair.AccessToken, s.cfg.TTL))
	s.ctx.SetCookie(s.cookie(RefreshCookieName, pair.RefreshToken, s.cfg.TTL))
}

func (s *CookieStore) Clear() {
	s.ctx.SetCookie(s.cookie(AccessCookieName, "", -1))
	s.ctx.SetCookie(s.cookie(RefreshCookieName, "", -1))
}

func (s *CookieStore) cookie(name, value string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: s.cfg.SameSite,
	}
}
