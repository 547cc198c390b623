package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"barberq/internal/roles"
	"barberq/internal/services"
)

const sessionCookieName = "barberq_session"

// identity is the resolved caller of a request, from either a session cookie
// or the static CLI bearer token.
type identity struct {
	UserID int64
	Name   string
	Role   roles.Role
	// Source is "session" or "api_token".
	Source string
}

type sessionClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// sessionManager signs and validates the JWT session cookie.
type sessionManager struct {
	secret []byte
	ttl    time.Duration
}

func newSessionManager(secret string, ttl time.Duration) *sessionManager {
	if ttl == 0 {
		ttl = 12 * time.Hour
	}
	return &sessionManager{secret: []byte(secret), ttl: ttl}
}

func (m *sessionManager) issue(userID int64, name string, role roles.Role) (string, time.Time, error) {
	expires := time.Now().Add(m.ttl)
	claims := sessionClaims{
		Name: name,
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, expires, nil
}

func (m *sessionManager) validate(token string) (*identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, services.Wrap(services.ErrUnauthorized, "server", "validate session", "invalid session", err)
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok {
		return nil, services.Wrap(services.ErrUnauthorized, "server", "validate session", "invalid session", nil)
	}
	role, ok := roles.Parse(claims.Role)
	if !ok {
		return nil, services.Wrap(services.ErrUnauthorized, "server", "validate session", "unknown role", nil)
	}
	userID, _ := strconv.ParseInt(claims.Subject, 10, 64)
	return &identity{UserID: userID, Name: claims.Name, Role: role, Source: "session"}, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// resolveIdentity inspects the request credentials: the static bearer token
// grants owner-level access for the CLI, otherwise the session cookie is
// validated. A nil identity with nil error means anonymous.
func (s *Server) resolveIdentity(r *http.Request) (*identity, error) {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token := strings.TrimPrefix(auth, "Bearer ")
		if s.cfg.Server.APIToken != "" && token == s.cfg.Server.APIToken {
			return &identity{Name: "api", Role: roles.Owner, Source: "api_token"}, nil
		}
		return nil, services.Wrap(services.ErrUnauthorized, "server", "resolve identity", "invalid bearer token", nil)
	}
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	return s.sessions.validate(cookie.Value)
}

// requireRole resolves the caller and enforces a minimum role. It writes the
// error response itself and returns nil when the request is already handled.
func (s *Server) requireRole(w http.ResponseWriter, r *http.Request, minimum roles.Role) *identity {
	caller, err := s.resolveIdentity(r)
	if err != nil {
		s.writeError(w, err)
		return nil
	}
	if caller == nil {
		s.writeErrorCode(w, http.StatusUnauthorized, "unauthorized", "login required")
		return nil
	}
	if !caller.Role.AtLeast(minimum) {
		s.writeErrorCode(w, http.StatusForbidden, "insufficient_role", "insufficient role")
		return nil
	}
	return caller
}
