package services

import (
	"context"
	"strings"

	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AdminFinder looks admins up by email.
type AdminFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// Authenticator checks admin credentials and hands out sessions.
type Authenticator struct {
	admins   AdminFinder
	sessions *SessionManager
}

func NewAuthenticator(admins AdminFinder, sessions *SessionManager) *Authenticator {
	return &Authenticator{admins: admins, sessions: sessions}
}

// Login returns a signed session token for a valid email and password.
// An unknown email and a wrong password fail the same way.
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, *Session, error) {
	admin, err := a.admins.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errs.IsNotFound(err) {
			return "", nil, errs.NewInvalidCredentialsError()
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		log.Info().Str("email", admin.Email).Msg("admin login rejected")
		return "", nil, errs.NewInvalidCredentialsError()
	}

	token, session, err := a.sessions.Issue(admin)
	if err != nil {
		return "", nil, errs.NewInternalErrorWithCause("Failed to start session", err)
	}
	return token, session, nil
}

// HashPassword bcrypt-hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
