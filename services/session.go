package services

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
)

const (
	SessionCookieName = "studio_session"
	sessionIssuer     = "studio-site-backend"
)

type (
	// SessionClaims is the signed body of a session token. Scope is reserved
	// for finer-grained permissions and is not checked anywhere.
	SessionClaims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Scope string `json:"scope,omitempty"`
		jwt.RegisteredClaims
	}
	// Session is the admin identity carried by a valid token.
	Session struct {
		AdminID   uuid.UUID `json:"id"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
)

type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) (*SessionManager, error) {
	if secret == "" {
		return nil, errs.NewConfigMissingError("SESSION_SECRET")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a session token for admin.
func (m *SessionManager) Issue(admin *models.Admin) (string, *Session, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &SessionClaims{
		Email: admin.Email,
		Name:  admin.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.String(),
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}
	return token, &Session{
		AdminID:   admin.ID,
		Email:     admin.Email,
		Name:      admin.Name,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse verifies a token and returns its session. Errors match
// errs.ErrMissingToken, errs.ErrExpiredToken or errs.ErrInvalidToken.
func (m *SessionManager) Parse(token string) (*Session, error) {
	if token == "" {
		return nil, errs.ErrMissingToken
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", errs.ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidToken, err)
	}

	adminID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", errs.ErrInvalidToken)
	}
	return &Session{
		AdminID:   adminID,
		Email:     claims.Email,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
